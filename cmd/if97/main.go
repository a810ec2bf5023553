// Command if97 evaluates IAPWS-IF97 water and steam properties.
package main

import (
	"github.com/alexshd/if97/internal/app"
	"github.com/alexshd/if97/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
