// Package bankserver implements the TCP command server: connection
// lifecycle, command dispatch, and the handlers that compose the Store and
// Approval Broker into the bank's operations.
package bankserver

import (
	"bufio"
	"errors"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/withobsrvr/bank-server/internal/auditsink"
	"github.com/withobsrvr/bank-server/internal/broker"
	"github.com/withobsrvr/bank-server/internal/session"
	"github.com/withobsrvr/bank-server/internal/store"
)

const welcomeBanner = "Welcome to Secure Bank System!\n" +
	"Available commands:\n" +
	"RATES - view current interest rates\n" +
	`REGISTER "Full Name" "Birth Date" "Passport" "Password" - create account` + "\n" +
	"LOGIN <account_id> <password> - login to existing account\n" +
	"SUPERLOGIN <account_id> <password> - security officer login\n" +
	"HELP - show all commands"

// Server is the TCP front end: one accept goroutine plus one worker
// goroutine per connection, all sharing a Store and an Approval Broker.
type Server struct {
	store           *store.Store
	broker          *broker.Broker
	metrics         *Metrics
	logger          *zap.Logger
	port            int
	approvalTimeout time.Duration
	audit           *auditsink.Sink

	listener net.Listener
	running  atomic.Bool
	wg       sync.WaitGroup

	sessionsMu sync.Mutex
	sessions   map[net.Conn]*session.Session
}

// New constructs a Server bound to st and br. It does not start listening
// until Start is called.
func New(st *store.Store, br *broker.Broker, metrics *Metrics, logger *zap.Logger, port int, approvalTimeout time.Duration) *Server {
	return &Server{
		store:           st,
		broker:          br,
		metrics:         metrics,
		logger:          logger,
		port:            port,
		approvalTimeout: approvalTimeout,
		sessions:        make(map[net.Conn]*session.Session),
	}
}

// Start binds the listening socket and begins accepting connections in the
// background.
func (s *Server) Start() error {
	addr := ":" + portString(s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.running.Store(true)

	s.wg.Add(1)
	go s.acceptLoop()

	s.logger.Info("bank server started", zap.Int("port", s.port))
	return nil
}

// Stop stops accepting new connections, waits for in-flight workers to
// drain, and flushes the store and the verification spool.
func (s *Server) Stop() error {
	s.running.Store(false)
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()

	if err := s.store.SaveToFile(); err != nil {
		s.logger.Error("failed to flush store on shutdown", zap.Error(err))
	}
	if err := s.broker.SaveQueues(); err != nil {
		s.logger.Error("failed to flush verification queue on shutdown", zap.Error(err))
	}
	s.logger.Info("bank server stopped")
	return nil
}

// SetAuditSink attaches the optional PostgreSQL transaction mirror. A nil
// sink (the default) makes every handler's audit call a no-op.
func (s *Server) SetAuditSink(sink *auditsink.Sink) {
	s.audit = sink
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for s.running.Load() {
		if tcpListener, ok := s.listener.(*net.TCPListener); ok {
			_ = tcpListener.SetDeadline(time.Now().Add(100 * time.Millisecond))
		}

		conn, err := s.listener.Accept()
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			if !s.running.Load() {
				return
			}
			s.logger.Warn("accept failed", zap.Error(err))
			continue
		}

		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	sess := &session.Session{
		Notify: func(msg string) { conn.Write([]byte(msg)) },
	}
	s.sessionsMu.Lock()
	s.sessions[conn] = sess
	s.sessionsMu.Unlock()
	s.metrics.SessionOpened()

	defer func() {
		s.sessionsMu.Lock()
		delete(s.sessions, conn)
		s.sessionsMu.Unlock()
		s.metrics.SessionClosed()
	}()

	if _, err := conn.Write([]byte(welcomeBanner)); err != nil {
		return
	}

	reader := bufio.NewReader(conn)
	for s.running.Load() {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, " \t\r\n")

		tokens := session.Tokenize(line)
		if len(tokens) == 0 {
			if _, err := conn.Write([]byte(s.fail(KindParse, "Empty command"))); err != nil {
				return
			}
			continue
		}

		cmd := strings.ToUpper(tokens[0])
		args := tokens[1:]

		start := time.Now()
		response, closeConn := s.dispatch(sess, cmd, args)
		s.metrics.ObserveLatency(time.Since(start).Seconds())
		s.metrics.RecordCommand(cmd)

		if _, err := conn.Write([]byte(response)); err != nil {
			return
		}
		if closeConn {
			return
		}
	}
}

func portString(port int) string {
	return strconv.Itoa(port)
}
