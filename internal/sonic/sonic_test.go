package sonic

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	N int
}

type echoResponse struct {
	Doubled int
}

func startEchoServer(t *testing.T) string {
	t.Helper()
	svc := ServiceFunc[echoRequest, echoResponse](func(ctx context.Context, req echoRequest) (echoResponse, error) {
		if req.N < 0 {
			return echoResponse{}, errors.New("negative input")
		}
		return echoResponse{Doubled: req.N * 2}, nil
	})

	srv, err := Bind[echoRequest, echoResponse]("127.0.0.1:0", svc, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = srv.Serve(ctx) }()

	return srv.Addr().String()
}

func TestConnection_SendRoundTrips(t *testing.T) {
	addr := startEchoServer(t)

	conn, err := CreateWithTimeout[echoRequest, echoResponse](addr, time.Second)
	require.NoError(t, err)
	defer conn.Close()

	resp, err := conn.SendWithTimeout(echoRequest{N: 21}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 42, resp.Doubled)
}

func TestConnection_MultipleSequentialSendsOnOneConnection(t *testing.T) {
	addr := startEchoServer(t)

	conn, err := CreateWithTimeout[echoRequest, echoResponse](addr, time.Second)
	require.NoError(t, err)
	defer conn.Close()

	for _, n := range []int{1, 2, 3} {
		resp, err := conn.SendWithTimeout(echoRequest{N: n}, time.Second)
		require.NoError(t, err)
		assert.Equal(t, n*2, resp.Doubled)
	}
}

func TestConnection_HandlerErrorSurfacesAsRemoteError(t *testing.T) {
	addr := startEchoServer(t)

	conn, err := CreateWithTimeout[echoRequest, echoResponse](addr, time.Second)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.SendWithTimeout(echoRequest{N: -1}, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative input")
}

func TestCreateWithTimeout_DialFailureIsTimeoutOrIndexIO(t *testing.T) {
	_, err := CreateWithTimeout[echoRequest, echoResponse]("127.0.0.1:1", 200*time.Millisecond)
	assert.Error(t, err)
}

func TestResilientConnection_SucceedsOnFirstAttempt(t *testing.T) {
	addr := startEchoServer(t)

	rc, err := CreateResilientWithTimeout[echoRequest, echoResponse](addr, time.Second, nil)
	require.NoError(t, err)

	resp, err := rc.SendWithTimeout(echoRequest{N: 5}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 10, resp.Doubled)
}

func TestResilientConnection_RetriesThroughConnectionFailures(t *testing.T) {
	rc, err := CreateResilientWithTimeout[echoRequest, echoResponse](
		"127.0.0.1:1", 100*time.Millisecond,
		[]time.Duration{time.Millisecond, time.Millisecond},
	)
	require.NoError(t, err)

	_, err = rc.SendWithTimeout(echoRequest{N: 1}, 100*time.Millisecond)
	assert.Error(t, err)
}

func TestResilientConnection_DoesNotRetryApplicationErrors(t *testing.T) {
	addr := startEchoServer(t)

	rc, err := CreateResilientWithTimeout[echoRequest, echoResponse](
		addr, time.Second, []time.Duration{time.Millisecond},
	)
	require.NoError(t, err)

	_, err = rc.SendWithTimeout(echoRequest{N: -1}, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative input")
}

func TestServer_AddrReflectsBoundPort(t *testing.T) {
	addr := startEchoServer(t)
	assert.NotEmpty(t, addr)
}
