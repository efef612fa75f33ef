// Package grpcclient holds the gRPC channel shared by gateway services that
// are reached over gRPC rather than HTTP.
package grpcclient

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Client wraps one *grpc.ClientConn. Service stubs are built on Conn().
type Client struct {
	conn *grpc.ClientConn
}

// New connects to addr without transport security.
func New(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("New: connect to %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

// FromConn wraps an existing connection, e.g. one dialed over bufconn in tests.
func FromConn(conn *grpc.ClientConn) *Client {
	return &Client{conn: conn}
}

// Conn returns the underlying channel.
func (c *Client) Conn() *grpc.ClientConn {
	return c.conn
}

// Health asks the standard health service about service ("" means the
// whole server) and returns the reported status, e.g. "SERVING".
func (c *Client) Health(ctx context.Context, service string) (string, error) {
	resp, err := healthpb.NewHealthClient(c.conn).Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return "", fmt.Errorf("Health: %w", err)
	}
	return resp.GetStatus().String(), nil
}

// Close tears the channel down.
func (c *Client) Close() error {
	return c.conn.Close()
}
