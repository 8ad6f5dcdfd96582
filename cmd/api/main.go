package main

import (
	"go.uber.org/fx"

	"github.com/comanda-app/comanda/internal/app"
)

func main() {
	fx.New(app.Module).Run()
}
