package rootfiles

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/thejerf/suture/v4"
)

type Server struct {
	config *Config
}

func NewServer(config *Config) *Server {
	return &Server{
		config: config,
	}
}

func logSupervisorEvent(e suture.Event) {
	log.Warn().Str("component", "supervisor").Msg(e.String())
}

// Run serves until ctx is cancelled or the HTTP service cannot bind.
func (s *Server) Run(ctx context.Context) error {
	supervisor := suture.New("rootfiles", suture.Spec{
		EventHook: logSupervisorEvent,
	})

	files := NewFileQueryService(
		NewPartitionRootLister(s.config.Roots.All),
		OSDirectoryLister{},
	)
	httpService := NewHTTPService(s.config, files)
	supervisor.Add(httpService)

	err := supervisor.Serve(ctx)
	if fatal := httpService.Fatal(); fatal != nil {
		return fatal
	}
	if ctx.Err() != nil {
		return nil
	}
	return err
}
