//go:build tinygo

package main

import (
	"boardloop/app"
	"boardloop/hal"
)

func main() {
	app.Run(hal.New())
}
