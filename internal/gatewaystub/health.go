package gatewaystub

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Services lists the names the stub reports through the gRPC health service.
var Services = []string{"cards", "documents", "operations", "users"}

// NewHealthServer returns a gRPC server exposing grpc.health.v1 with every
// stub service marked SERVING.
func NewHealthServer() (*grpc.Server, *health.Server) {
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	for _, name := range Services {
		hs.SetServingStatus(name, healthpb.HealthCheckResponse_SERVING)
	}

	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	return srv, hs
}
