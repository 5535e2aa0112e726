package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// AttendanceServiceName は gRPC ヘルスチェックで公開するサービス名です。
const AttendanceServiceName = "pointage.v1.AttendanceService"

// Server は gRPC サーバーのライフサイクルを管理します。
type Server struct {
	listenAddr string
	grpcServer *grpc.Server
	health     *health.Server
	logger     *slog.Logger
}

// New は指定されたアドレスで待ち受け、grpc.health.v1 を提供する gRPC サーバーを構築します。
func New(listenAddr string, logger *slog.Logger, opts ...grpc.ServerOption) *Server {
	srv := grpc.NewServer(opts...)
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(AttendanceServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	return &Server{
		listenAddr: listenAddr,
		grpcServer: srv,
		health:     hs,
		logger:     logger,
	}
}

// Run はサーバーを起動し、コンテキストがキャンセルされると GracefulStop します。
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}
	return s.Serve(ctx, lis)
}

// Serve は与えられたリスナーで待ち受けます。
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	go func() {
		<-ctx.Done()
		s.GracefulStop()
	}()

	s.logger.Info("gRPC server listening", "addr", lis.Addr().String())
	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	return nil
}

// WatchDependencies は interval ごとに check を実行し、結果に応じて打刻サービスの提供状態を切り替えます。
// ctx がキャンセルされるまでブロックします。
func (s *Server) WatchDependencies(ctx context.Context, interval time.Duration, check func(context.Context) error) error {
	if check == nil || interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	serving := true
	for {
		err := check(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if healthy := err == nil; healthy != serving {
			serving = healthy
			if healthy {
				s.logger.InfoContext(ctx, "dependencies recovered", "service", AttendanceServiceName)
			} else {
				s.logger.WarnContext(ctx, "dependency check failed", "service", AttendanceServiceName, "error", err.Error())
			}
		}
		s.setServing(serving)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (s *Server) setServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(AttendanceServiceName, status)
}

// GracefulStop はヘルス状態を NOT_SERVING にしてからサーバーを安全に停止します。
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
