package sonic

import (
	"bufio"
	"context"
	"net"

	"go.uber.org/zap"

	"github.com/hyperjump/wyvern/internal/errs"
)

// Server accepts sonic connections on a listener and dispatches every
// request to a single Service. One Server handles one RPC; a node that
// exposes several RPCs runs one Server per port, the way the original
// distributed query nodes run one sonic service per socket.
type Server[Req, Resp any] struct {
	listener net.Listener
	service  Service[Req, Resp]
	logger   *zap.Logger
}

// Bind opens a TCP listener at addr and returns a Server ready to Serve.
func Bind[Req, Resp any](addr string, service Service[Req, Resp], logger *zap.Logger) (*Server[Req, Resp], error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errs.Wrap(err, errs.IndexIO, "bind sonic listener on %s", addr)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server[Req, Resp]{listener: ln, service: service, logger: logger}, nil
}

// Addr returns the address the server is bound to, resolved if the caller
// bound to port 0.
func (s *Server[Req, Resp]) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve accepts connections until ctx is cancelled or the listener errs.
// Each connection is handled in its own goroutine and may carry several
// sequential requests.
func (s *Server[Req, Resp]) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = s.listener.Close()
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return errs.Wrap(err, errs.IndexIO, "accept sonic connection")
			}
		}
		go s.handleConn(ctx, conn)
	}
}

func (s *Server[Req, Resp]) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)

	for {
		var reqEnv envelope[Req]
		if err := readFrame(r, &reqEnv); err != nil {
			return
		}

		resp, handleErr := s.service.Handle(ctx, reqEnv.Body)
		respEnv := envelope[Resp]{Body: resp}
		if handleErr != nil {
			s.logger.Error("sonic request failed", zap.Error(handleErr))
			respEnv.Err = handleErr.Error()
		}
		if err := writeFrame(conn, respEnv); err != nil {
			s.logger.Error("sonic response write failed", zap.Error(err))
			return
		}
	}
}
