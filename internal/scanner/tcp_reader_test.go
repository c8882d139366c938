package scanner

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serveOnce 启动只接受一个连接的服务端，写入 payload 后按 hold 决定是否保持连接
func serveOnce(t *testing.T, payload []byte, hold bool) (string, int) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan struct{})
	t.Cleanup(func() {
		close(done)
		ln.Close()
	})

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		if len(payload) > 0 {
			conn.Write(payload)
		}
		if hold {
			<-done
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return addr.IP.String(), addr.Port
}

func newTestTCPReader(readTimeout time.Duration) *TCPReader {
	return NewTCPReader(&net.Dialer{Timeout: time.Second}, readTimeout)
}

func TestTCPReaderPartialReadOnClose(t *testing.T) {
	host, port := serveOnce(t, []byte(strings.Repeat("a", 40)), false)

	banner, err := newTestTCPReader(time.Second).Read(context.Background(), host, port, 100)
	require.NoError(t, err)
	assert.Len(t, banner, 40)
}

func TestTCPReaderPartialReadOnTimeout(t *testing.T) {
	host, port := serveOnce(t, []byte(strings.Repeat("b", 40)), true)

	start := time.Now()
	banner, err := newTestTCPReader(200*time.Millisecond).Read(context.Background(), host, port, 100)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("b", 40), banner)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestTCPReaderTruncatesToMaxBytes(t *testing.T) {
	host, port := serveOnce(t, []byte(strings.Repeat("c", 300)), true)

	banner, err := newTestTCPReader(time.Second).Read(context.Background(), host, port, 200)
	require.NoError(t, err)
	assert.Len(t, banner, 200)
}

func TestTCPReaderNoDataIsError(t *testing.T) {
	host, port := serveOnce(t, nil, false)

	_, err := newTestTCPReader(time.Second).Read(context.Background(), host, port, 100)
	assert.Error(t, err)
}

func TestTCPReaderConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	_, err = newTestTCPReader(time.Second).Read(context.Background(), "127.0.0.1", port, 100)
	assert.Error(t, err)
}

func TestTCPReaderLossyDecode(t *testing.T) {
	host, port := serveOnce(t, []byte("SSH-2.0-\xff\xfeOK"), false)

	banner, err := newTestTCPReader(time.Second).Read(context.Background(), host, port, 100)
	require.NoError(t, err)
	assert.Equal(t, "SSH-2.0-\uFFFDOK", banner)
}
