package scanner

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"golang.org/x/net/proxy"

	"Sanca/internal/utils"
)

// 每次读取的块大小
const tcpChunkSize = 128

// TCPReader 读取服务在连接建立后发送的 banner
type TCPReader struct {
	dialer      proxy.ContextDialer
	readTimeout time.Duration
	logger      *utils.Logger
}

// NewTCPReader 创建 TCP 读取器，readTimeout 作用于每一次读取
func NewTCPReader(dialer proxy.ContextDialer, readTimeout time.Duration) *TCPReader {
	if readTimeout <= 0 {
		readTimeout = time.Second
	}
	return &TCPReader{
		dialer:      dialer,
		readTimeout: readTimeout,
		logger:      utils.NewLogger("tcp-reader"),
	}
}

// Read 连接 host:port 并读取最多 maxBytes 字节
// 已经读到数据后出现的错误（包括 EOF 和超时）只结束读取，返回已读到的部分
func (r *TCPReader) Read(ctx context.Context, host string, port int, maxBytes int) (string, error) {
	address := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := r.dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return "", fmt.Errorf("连接 %s 失败: %w", address, err)
	}
	defer conn.Close()

	// 取消时关闭连接，中断阻塞的读取
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	data, err := readBounded(conn, maxBytes, r.readTimeout)
	if err != nil {
		return "", fmt.Errorf("读取 %s 失败: %w", address, err)
	}

	r.logger.Debug("从 %s 读取 %d 字节", address, len(data))
	return DecodeBanner(data), nil
}

func readBounded(conn net.Conn, maxBytes int, timeout time.Duration) ([]byte, error) {
	buf := make([]byte, 0, maxBytes)
	chunk := make([]byte, tcpChunkSize)

	for len(buf) < maxBytes {
		if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return nil, err
		}
		n, err := conn.Read(chunk)
		buf = append(buf, chunk[:n]...)
		if err != nil {
			if len(buf) == 0 {
				return nil, err
			}
			break
		}
	}

	if len(buf) > maxBytes {
		buf = buf[:maxBytes]
	}
	return buf, nil
}
