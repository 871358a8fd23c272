// Package probe serves the standard gRPC health protocol next to the HTTP
// API so orchestrators can check readiness without speaking JSON.
package probe

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Service is the health service name reported for the render API.
const Service = "spirit.Render"

// Probe wraps a gRPC server that only carries the health service.
type Probe struct {
	logger *zap.Logger
	srv    *grpc.Server
	health *health.Server
}

// New creates a Probe reporting NOT_SERVING until SetServing(true).
func New(logger *zap.Logger) *Probe {
	p := &Probe{
		logger: logger,
		health: health.NewServer(),
	}
	p.srv = grpc.NewServer(grpc.UnaryInterceptor(p.logCalls))
	healthpb.RegisterHealthServer(p.srv, p.health)
	p.SetServing(false)
	return p
}

func (p *Probe) logCalls(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	p.logger.Debug("grpc call",
		zap.String("method", info.FullMethod),
		zap.Float64("latencyMs", float64(time.Since(start).Microseconds())/1000.0),
		zap.Error(err),
	)
	return resp, err
}

// SetServing flips both the overall and the render service status.
func (p *Probe) SetServing(ok bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		status = healthpb.HealthCheckResponse_SERVING
	}
	p.health.SetServingStatus("", status)
	p.health.SetServingStatus(Service, status)
}

// Serve blocks accepting connections on lis until Stop.
func (p *Probe) Serve(lis net.Listener) error {
	p.logger.Info("grpc health listening", zap.String("addr", lis.Addr().String()))
	return p.srv.Serve(lis)
}

// Stop marks the service NOT_SERVING and closes the server.
func (p *Probe) Stop() {
	p.health.Shutdown()
	p.srv.GracefulStop()
}
