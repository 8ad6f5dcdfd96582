package app

import (
	"go.uber.org/fx"

	"github.com/comanda-app/comanda/internal/cache"
	"github.com/comanda-app/comanda/internal/config"
	"github.com/comanda-app/comanda/internal/database"
	"github.com/comanda-app/comanda/internal/export"
	"github.com/comanda-app/comanda/internal/logger"
	"github.com/comanda-app/comanda/internal/messaging"
	"github.com/comanda-app/comanda/internal/observability"
	"github.com/comanda-app/comanda/internal/qr"
	repositoryorder "github.com/comanda-app/comanda/internal/repository/order"
	repositoryproduct "github.com/comanda-app/comanda/internal/repository/product"
	repositorytable "github.com/comanda-app/comanda/internal/repository/table"
	httpserver "github.com/comanda-app/comanda/internal/server/http"
	servicemenu "github.com/comanda-app/comanda/internal/service/menu"
	serviceorder "github.com/comanda-app/comanda/internal/service/order"
	serviceproduct "github.com/comanda-app/comanda/internal/service/product"
	servicereport "github.com/comanda-app/comanda/internal/service/report"
	servicetable "github.com/comanda-app/comanda/internal/service/table"
	transporthttp "github.com/comanda-app/comanda/internal/transport/http"
	"github.com/comanda-app/comanda/internal/worker"
	workerorder "github.com/comanda-app/comanda/internal/worker/order"
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	config.Module,
	cache.Module,
	database.Module,
	logger.Module,
	messaging.Module,
	observability.Module,
	qr.Module,
	export.Module,
	repositoryorder.Module,
	repositoryproduct.Module,
	repositorytable.Module,
	servicemenu.Module,
	serviceorder.Module,
	serviceproduct.Module,
	servicereport.Module,
	servicetable.Module,
)

// HTTP wires the HTTP transport on top of the core modules.
var HTTP = fx.Options(
	Core,
	httpserver.Module,
	transporthttp.Module,
)

// Worker exposes background worker processing.
var Worker = fx.Options(
	Core,
	worker.Module,
	workerorder.Module,
)

// Module is the default application wiring (HTTP only).
var Module = HTTP
