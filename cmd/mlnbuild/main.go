package main

import "github.com/malunal-studios/mlnbuild/cmd/mlnbuild/internal"

func main() {
	internal.Execute()
}
