package scanner

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePortRange(t *testing.T) {
	tests := []struct {
		input    string
		expected []int
		wantErr  bool
	}{
		{input: "22", expected: []int{22}},
		{input: "80,22,80", expected: []int{22, 80}},
		{input: "1000-1003, 21", expected: []int{21, 1000, 1001, 1002, 1003}},
		{input: "common", expected: []int{21, 22, 25, 110, 143, 587, 3306}},
		{input: "10-5", wantErr: true},
		{input: "0", wantErr: true},
		{input: "70000", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "1-2-3", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ports, err := ParsePortRange(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ports)
		})
	}

	all, err := ParsePortRange("all")
	require.NoError(t, err)
	assert.Len(t, all, 65535)
}

func TestPortScannerScan(t *testing.T) {
	_, sshPort := serveOnce(t, []byte("SSH-2.0-OpenSSH_8.9p1 Ubuntu-3\r\n"), false)
	_, ftpPort := serveOnce(t, []byte("220 ProFTPD 1.3.5e Server (Debian)\r\n"), false)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	closedPort := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	scanner := NewPortScanner(newTestTCPReader(500*time.Millisecond), 4, 200)
	results := scanner.Scan(context.Background(), "127.0.0.1", []int{ftpPort, closedPort, sshPort})

	require.Len(t, results, 2)
	assert.Less(t, results[0].Port, results[1].Port)

	banners := map[int]string{}
	for _, r := range results {
		banners[r.Port] = r.Banner
	}
	assert.Contains(t, banners[sshPort], "OpenSSH_8.9p1")
	assert.Contains(t, banners[ftpPort], "ProFTPD 1.3.5e")
}

func TestPortScannerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	scanner := NewPortScanner(newTestTCPReader(time.Second), 2, 200)
	assert.Empty(t, scanner.Scan(ctx, "127.0.0.1", []int{1, 2, 3}))
}
