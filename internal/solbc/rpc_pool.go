// =============================
// File: internal/solbc/rpc_pool.go
// =============================
package solbc

import (
	"sync/atomic"
	"time"
)

func (c *RPCClient) setActive(state bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.active = state
}

func (c *RPCClient) isActive() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.active
}

func (c *RPCClient) updateMetrics(success bool, latency time.Duration) {
	c.metrics.mutex.Lock()
	defer c.metrics.mutex.Unlock()

	if success {
		atomic.AddUint64(&c.metrics.successCount, 1)
	} else {
		atomic.AddUint64(&c.metrics.errorCount, 1)
	}

	// Rolling average
	c.metrics.latency = (c.metrics.latency + latency) / 2
}

func (c *Client) hasActiveClients() bool {
	for _, client := range c.rpcClients {
		if client.isActive() {
			return true
		}
	}
	return false
}

// getNextClient returns the next active endpoint, reactivating the whole
// pool when every node has been marked down so a transient outage does
// not wedge the process.
func (c *Client) getNextClient() *RPCClient {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	initialIndex := c.currIndex
	for {
		c.currIndex = (c.currIndex + 1) % len(c.rpcClients)
		if c.rpcClients[c.currIndex].isActive() {
			return c.rpcClients[c.currIndex]
		}
		if c.currIndex == initialIndex {
			for _, client := range c.rpcClients {
				client.setActive(true)
			}
			return c.rpcClients[c.currIndex]
		}
	}
}
