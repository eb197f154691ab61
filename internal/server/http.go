package server

import (
	"time"

	"github.com/facundofernandezmiguez/mutants/internal/conf"
	"github.com/facundofernandezmiguez/mutants/internal/service"

	"github.com/yola1107/kratos/v2/log"
	"github.com/yola1107/kratos/v2/middleware/recovery"
	"github.com/yola1107/kratos/v2/transport/http"
)

// NewHTTPServer new an HTTP server.
func NewHTTPServer(c *conf.Server, svc *service.DnaService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
	}
	if c.Http.Network != "" {
		opts = append(opts, http.Network(c.Http.Network))
	}
	if c.Http.Addr != "" {
		opts = append(opts, http.Address(c.Http.Addr))
	}
	if c.Http.Timeout != "" {
		if d, err := time.ParseDuration(c.Http.Timeout); err == nil {
			opts = append(opts, http.Timeout(d))
		} else {
			log.NewHelper(logger).Warnf("invalid http timeout %q: %v", c.Http.Timeout, err)
		}
	}
	srv := http.NewServer(opts...)
	// The service routes on path fragments itself, so it owns the whole tree.
	srv.HandlePrefix("/", svc)
	return srv
}
