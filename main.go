package main

import (
	cmd "github.com/comfy-catalog/catalog-server/cmd/catalog"
)

func main() {
	cmd.Execute()
}
