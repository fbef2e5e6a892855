package utils

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPingService(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	addr := ln.Addr().String()
	assert.NoError(t, PingService("http://"+addr, time.Second))
	assert.NoError(t, PingService(addr, time.Second))
	assert.NoError(t, PingAddress(addr, time.Second))

	ln.Close()
	assert.Error(t, PingAddress(addr, 200*time.Millisecond))
	assert.Error(t, PingService("http://bad host:99999", time.Second))
}
