package main

import (
	"github.com/d-nagy/ch2"
	"github.com/d-nagy/ch2/binding"
)

func main() {
	binding.AddBindings()
	ch2.Main()
}
