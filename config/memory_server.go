package config

import (
	"context"
	"fmt"
	"net"
	"time"

	sqle "github.com/dolthub/go-mysql-server"
	"github.com/dolthub/go-mysql-server/memory"
	"github.com/dolthub/go-mysql-server/server"
	"github.com/dolthub/go-mysql-server/sql"

	"insuranceapi/pkg/logger"
)

// MemoryServer is an embedded in-memory MySQL server used with DB_DRIVER=memory.
// Data lives only as long as the process.
type MemoryServer struct {
	Server   *server.Server
	Engine   *sqle.Engine
	Provider *memory.DbProvider
	Port     int
	cancel   context.CancelFunc
}

// StartMemoryServer starts a go-mysql-server instance holding one empty database
// named dbName on a free localhost port and waits until it accepts connections.
func StartMemoryServer(ctx context.Context, dbName string) (*MemoryServer, error) {
	port, err := freePort()
	if err != nil {
		return nil, fmt.Errorf("failed to get free port: %w", err)
	}

	db := memory.NewDatabase(dbName)
	provider := memory.NewDBProvider(db)
	engine := sqle.NewDefault(provider)

	cfg := server.Config{
		Protocol: "tcp",
		Address:  fmt.Sprintf("localhost:%d", port),
	}

	s, err := server.NewServer(cfg, engine, sql.NewContext, memory.NewSessionBuilder(provider), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)

	go func() {
		if err := s.Start(); err != nil {
			logger.Errorf("Embedded MySQL server error: %v", err)
		}
	}()

	go func() {
		<-serverCtx.Done()
		if err := s.Close(); err != nil {
			logger.Warnf("Failed to close embedded MySQL server: %v", err)
		}
	}()

	readyCtx, readyCancel := context.WithTimeout(ctx, 5*time.Second)
	defer readyCancel()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-readyCtx.Done():
			cancel()
			return nil, fmt.Errorf("embedded MySQL server did not start: %w", readyCtx.Err())
		case <-ticker.C:
			conn, err := net.DialTimeout("tcp", fmt.Sprintf("localhost:%d", port), 100*time.Millisecond)
			if err == nil {
				conn.Close()
				logger.Infof("Started embedded MySQL server on port %d with database %s", port, dbName)
				return &MemoryServer{
					Server:   s,
					Engine:   engine,
					Provider: provider,
					Port:     port,
					cancel:   cancel,
				}, nil
			}
		}
	}
}

// Close stops the server. Safe to call more than once.
func (m *MemoryServer) Close() error {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
		logger.Infof("Stopped embedded MySQL server on port %d", m.Port)
	}
	return nil
}

func freePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}

	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	defer l.Close()

	return l.Addr().(*net.TCPAddr).Port, nil
}
