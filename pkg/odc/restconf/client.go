/*
Copyright 2026 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package restconf reads the operational inventory of an OpenDaylight
// controller over RESTCONF.
package restconf

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	simplejson "github.com/bitly/go-simplejson"
	"k8s.io/klog/v2"

	"github.com/opendaylight/vtn-sub002/pkg/cache/meta"
	"github.com/opendaylight/vtn-sub002/pkg/odc/types"
	"github.com/opendaylight/vtn-sub002/pkg/ratelimit"
)

const (
	NodesPath = "/restconf/operational/opendaylight-inventory:nodes"
	// NodePath is followed by the escaped node id.
	NodePath = NodesPath + "/node/"

	inventoryPrefix = "flow-node-inventory:"
	acceptJSON      = "application/json"
)

// errNotFound is returned by get for a 404 response.
var errNotFound = errors.New("not found")

// Client implements types.TopologyClient.
type Client struct {
	httpClient *http.Client
	limiter    *ratelimit.SouthboundRateLimiter
	logger     klog.Logger
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithRateLimiter throttles requests. A nil limiter does not throttle.
func WithRateLimiter(l *ratelimit.SouthboundRateLimiter) Option {
	return func(cl *Client) { cl.limiter = l }
}

func WithLogger(logger klog.Logger) Option {
	return func(cl *Client) { cl.logger = logger }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		logger:     klog.TODO(),
	}
	for _, o := range opts {
		o(c)
	}
	c.logger = c.logger.WithName("RestconfClient")
	return c
}

var _ types.TopologyClient = (*Client)(nil)

// ListSwitches implements types.TopologyClient.
func (c *Client) ListSwitches(ctx context.Context, address string) ([]types.RawRecord, error) {
	key := ratelimit.Key{Kind: meta.KindSwitch, Operation: ratelimit.OpList}
	response, err := c.get(ctx, key, strings.TrimSuffix(address, "/")+NodesPath)
	if errors.Is(err, errNotFound) {
		// No node was ever connected.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	container, ok := response.CheckGet("nodes")
	if !ok {
		return nil, nil
	}
	if _, err := container.Map(); err != nil {
		return nil, fmt.Errorf("%w: %q is not an object", types.ErrInvalidResponse, "nodes")
	}
	nodes, err := list(container, "node")
	if err != nil {
		return nil, err
	}
	ret := make([]types.RawRecord, 0, len(nodes))
	for _, n := range nodes {
		ret = append(ret, toRecord(n, ""))
	}
	return ret, nil
}

// ListPorts implements types.TopologyClient.
func (c *Client) ListPorts(ctx context.Context, address, switchID string) ([]types.RawRecord, error) {
	key := ratelimit.Key{Kind: meta.KindPort, Operation: ratelimit.OpGet}
	response, err := c.get(ctx, key, strings.TrimSuffix(address, "/")+NodePath+url.PathEscape(switchID))
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	nodes, err := list(response, "node")
	if err != nil {
		return nil, err
	}
	var ret []types.RawRecord
	for i := range nodes {
		node := response.Get("node").GetIndex(i)
		if id, _ := scalar(node.Get("id").Interface()); id != switchID {
			continue
		}
		connectors, err := list(node, "node-connector")
		if err != nil {
			return nil, err
		}
		for _, nc := range connectors {
			ret = append(ret, toRecord(nc, switchID))
		}
	}
	return ret, nil
}

func (c *Client) get(ctx context.Context, key ratelimit.Key, rawURL string) (*simplejson.Json, error) {
	if err := c.limiter.Accept(ctx, key); err != nil {
		return nil, fmt.Errorf("rate limiter for %v: %w", key, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrConnectivity, err)
	}
	req.Header.Set("Accept", acceptJSON)

	c.logger.V(4).Info("Sending request", "url", rawURL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("GET %s: %w", rawURL, ctx.Err())
		}
		return nil, fmt.Errorf("%w: GET %s: %v", types.ErrConnectivity, rawURL, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: GET %s returned %s", types.ErrConnectivity, rawURL, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("read %s: %w", rawURL, ctx.Err())
		}
		return nil, fmt.Errorf("%w: read %s: %v", types.ErrConnectivity, rawURL, err)
	}
	response, err := simplejson.NewJson(body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", types.ErrInvalidResponse, rawURL, err)
	}
	if _, err := response.Map(); err != nil {
		return nil, fmt.Errorf("%w: %s did not return an object", types.ErrInvalidResponse, rawURL)
	}
	return response, nil
}

// list returns the array under name in js. A missing field is an empty
// list, anything other than an array is an invalid response.
func list(js *simplejson.Json, name string) ([]interface{}, error) {
	field, ok := js.CheckGet(name)
	if !ok {
		return nil, nil
	}
	arr, err := field.Array()
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a list", types.ErrInvalidResponse, name)
	}
	return arr, nil
}

// toRecord flattens one inventory object. Nested objects become dotted
// property names, lists are dropped and the inventory namespace prefix is
// stripped. Anything but an object yields a record without id, which the
// fetch agents drop.
func toRecord(item interface{}, parentID string) types.RawRecord {
	r := types.RawRecord{ParentID: parentID, Properties: map[string]string{}}
	obj, ok := item.(map[string]interface{})
	if !ok {
		return r
	}
	if id, ok := scalar(obj["id"]); ok {
		r.ID = id
	}
	flatten(obj, "", r.Properties)
	delete(r.Properties, "id")
	return r
}

func flatten(obj map[string]interface{}, prefix string, out map[string]string) {
	for k, v := range obj {
		name := prefix + strings.TrimPrefix(k, inventoryPrefix)
		if nested, ok := v.(map[string]interface{}); ok {
			flatten(nested, name+".", out)
			continue
		}
		if s, ok := scalar(v); ok {
			out[name] = s
		}
	}
}

// scalar renders a decoded JSON scalar as a string.
func scalar(v interface{}) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case bool:
		if x {
			return "true", true
		}
		return "false", true
	}
	return "", false
}
