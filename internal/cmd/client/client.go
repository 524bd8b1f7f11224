package clientcmd

import (
	"fmt"
	"io"
	"net"
	"time"
)

// Client speaks the taskqd wire protocol: one request per connection, the
// response read until the server closes the other end.
type Client struct {
	addr    string
	timeout time.Duration
}

// New returns a client for the server at addr (host:port).
func New(addr string) *Client {
	return &Client{addr: addr, timeout: 10 * time.Second}
}

// Do sends one raw request and returns the raw response.
func (c *Client) Do(req string) (string, error) {
	conn, err := net.DialTimeout("tcp", c.addr, c.timeout)
	if err != nil {
		return "", fmt.Errorf("dial %s: %w", c.addr, err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(c.timeout))

	if _, err := conn.Write([]byte(req)); err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	resp, err := io.ReadAll(conn)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return string(resp), nil
}

// Add enqueues payload under the named queue and returns the new task id.
func (c *Client) Add(queue, payload string) (string, error) {
	return c.Do(fmt.Sprintf("ADD %s %d %s", queue, len(payload), payload))
}

// Get requests the next available task of the named queue.
func (c *Client) Get(queue string) (string, error) {
	return c.Do(fmt.Sprintf("GET %s", queue))
}

// In checks whether the named queue holds the task id.
func (c *Client) In(queue, id string) (string, error) {
	return c.Do(fmt.Sprintf("IN %s %s", queue, id))
}

// Ack acknowledges the task id on the named queue.
func (c *Client) Ack(queue, id string) (string, error) {
	return c.Do(fmt.Sprintf("ACK %s %s", queue, id))
}

// Save asks the server to write a snapshot.
func (c *Client) Save() (string, error) {
	return c.Do("SAVE")
}
