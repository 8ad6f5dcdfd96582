package http

import (
	"go.uber.org/fx"

	menutransport "github.com/comanda-app/comanda/internal/transport/http/menu"
	ordertransport "github.com/comanda-app/comanda/internal/transport/http/order"
	producttransport "github.com/comanda-app/comanda/internal/transport/http/product"
	reporttransport "github.com/comanda-app/comanda/internal/transport/http/report"
	tabletransport "github.com/comanda-app/comanda/internal/transport/http/table"
)

// Module aggregates all HTTP transport handlers.
var Module = fx.Options(
	menutransport.Module,
	ordertransport.Module,
	producttransport.Module,
	reporttransport.Module,
	tabletransport.Module,
)
