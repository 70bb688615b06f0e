package statsd

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listenUDP binds an ephemeral UDP port and returns the address plus a
// function that reads one datagram.
func listenUDP(t *testing.T) (string, func() string) {
	t.Helper()

	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	read := func() string {
		buf := make([]byte, 1024)
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		n, _, readErr := conn.ReadFrom(buf)
		require.NoError(t, readErr)
		return string(buf[:n])
	}
	return conn.LocalAddr().String(), read
}

func TestClient_Count(t *testing.T) {
	addr, read := listenUDP(t)

	client, err := NewClient(Config{Enabled: true, Address: addr, Prefix: "portal"})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	client.Count("gateway.request", 1, map[string]string{"method": "GET", "result": "success"})

	assert.Equal(t, "portal.gateway.request:1|c|#method:GET,result:success", read())
}

func TestClient_Timing(t *testing.T) {
	addr, read := listenUDP(t)

	client, err := NewClient(Config{Enabled: true, Address: addr})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	client.Timing("scanner.poll_duration", 1500*time.Millisecond, nil)

	assert.Equal(t, "scanner.poll_duration:1500|ms", read())
}

func TestClient_DisabledIsNoop(t *testing.T) {
	client, err := NewClient(Config{Enabled: false, Address: "127.0.0.1:8125"})
	require.NoError(t, err)

	// Must not panic or dial anywhere.
	client.Count("x", 1, nil)
	client.Timing("y", time.Second, nil)
	assert.NoError(t, client.Close())
}

func TestClient_NilReceiverSafe(t *testing.T) {
	var client *Client
	client.Count("x", 1, nil)
	client.Timing("y", time.Second, nil)
	assert.NoError(t, client.Close())
}

func TestClient_MetricNameSanitised(t *testing.T) {
	addr, read := listenUDP(t)

	client, err := NewClient(Config{Enabled: true, Address: addr, Prefix: "portal."})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	client.Count("gateway/request count", 2, nil)

	assert.Equal(t, "portal.gateway_request_count:2|c", read())
}
