package http

import (
	"github.com/fitpass-app/fitpass/internal/interfaces/http/handlers"
	restHandlers "github.com/fitpass-app/fitpass/internal/interfaces/http/handlers/rest"
	rpcHandlers "github.com/fitpass-app/fitpass/internal/interfaces/http/handlers/rpc"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	authHandler    *handlers.AuthHandler
	restHandler    *restHandlers.Handler
	rpcHandler     *rpcHandlers.Handler
	storageHandler *handlers.StorageHandler
	healthHandler  *handlers.HealthHandler
}
