// Package secretvault implements vault.Client against a SecretVault node
// cluster. Writes fan out to every node, reads are merged and deduplicated by
// record id, and each node call carries a short-lived ES256 bearer token
// issued for that node's DID.
package secretvault

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/loreforge/npcchat/core"
	"github.com/loreforge/npcchat/logging"
	"github.com/loreforge/npcchat/vault"
)

// Node identifies one member of the vault cluster.
type Node struct {
	URL string `yaml:"url" json:"url"`
	DID string `yaml:"did" json:"did"`
}

// Options configure the secretvault client.
type Options struct {
	HTTPClient *http.Client
	// Timeout bounds each node call when no HTTPClient is supplied.
	Timeout time.Duration
	// TokenTTL is the lifetime of minted node tokens.
	TokenTTL time.Duration
	Logger   logging.Logger
}

// Client talks to a SecretVault node cluster for one schema collection.
type Client struct {
	nodes    []Node
	orgDID   string
	key      *ecdsa.PrivateKey
	schemaID string
	client   *http.Client
	tokenTTL time.Duration
	logger   logging.Logger

	mu     sync.Mutex
	tokens map[string]nodeToken
}

type nodeToken struct {
	value   string
	expires time.Time
}

// Compile-time assertion.
var _ vault.Client = (*Client)(nil)

// NewClient creates a client for the given cluster, organization identity and
// schema collection. privateKeyPEM must hold an EC private key in PEM form.
func NewClient(nodes []Node, orgDID string, privateKeyPEM []byte, schemaID string, optFns ...func(o *Options)) (*Client, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("at least one vault node is required")
	}
	key, err := jwt.ParseECPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parse org private key: %w", err)
	}
	opts := Options{
		Timeout:  10 * time.Second,
		TokenTTL: time.Hour,
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		nodes:    nodes,
		orgDID:   orgDID,
		key:      key,
		schemaID: schemaID,
		client:   client,
		tokenTTL: opts.TokenTTL,
		logger:   opts.Logger,
		tokens:   map[string]nodeToken{},
	}, nil
}

// token returns a cached bearer token for the node, minting a fresh one when
// the cached token is missing or close to expiry.
func (c *Client) token(node Node) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.tokens[node.DID]; ok && time.Until(t.expires) > time.Minute {
		return t.value, nil
	}
	now := time.Now()
	expires := now.Add(c.tokenTTL)
	claims := jwt.MapClaims{
		"iss": c.orgDID,
		"aud": node.DID,
		"iat": now.Unix(),
		"exp": expires.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign node token for %s: %w", node.DID, err)
	}
	c.tokens[node.DID] = nodeToken{value: signed, expires: expires}
	return signed, nil
}

// post issues an authenticated JSON request against one node and decodes the
// response body into out (when out is non-nil).
func (c *Client) post(ctx context.Context, node Node, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}
	url := strings.TrimSuffix(node.URL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	tok, err := c.token(node)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tok)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("node %s: %w", node.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("node %s: status %d: %s", node.URL, resp.StatusCode, snippet)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("node %s: decode response: %w", node.URL, err)
		}
	}
	return nil
}

// Init verifies every node in the cluster is reachable. It carries no local
// state, so calling it again is harmless.
func (c *Client) Init(ctx context.Context) error {
	for _, node := range c.nodes {
		if err := c.post(ctx, node, http.MethodGet, "/health", nil, nil); err != nil {
			return fmt.Errorf("vault init: %w", err)
		}
	}
	c.logger.Info("vault cluster reachable", "nodes", len(c.nodes), "schema_id", c.schemaID)
	return nil
}

type createRequest struct {
	Schema string               `json:"schema"`
	Data   []core.SessionRecord `json:"data"`
}

type createResponse struct {
	Data struct {
		Created []string `json:"created"`
		Errors  []struct {
			Error string `json:"error"`
		} `json:"errors"`
	} `json:"data"`
}

// Insert writes the records to every node and returns the union of confirmed
// created ids. A node failure is tolerated as long as at least one node
// confirms the write.
func (c *Client) Insert(ctx context.Context, records []core.SessionRecord) ([]string, error) {
	seen := map[string]bool{}
	var created []string
	var lastErr error
	for _, node := range c.nodes {
		var resp createResponse
		if err := c.post(ctx, node, http.MethodPost, "/api/v1/data/create", createRequest{Schema: c.schemaID, Data: records}, &resp); err != nil {
			lastErr = err
			c.logger.Warn("vault write failed on node", "node", node.URL, "error", err.Error())
			continue
		}
		for _, id := range resp.Data.Created {
			if !seen[id] {
				seen[id] = true
				created = append(created, id)
			}
		}
	}
	if len(created) == 0 && lastErr != nil {
		return nil, fmt.Errorf("vault insert: %w", lastErr)
	}
	return created, nil
}

type readRequest struct {
	Schema string       `json:"schema"`
	Filter vault.Filter `json:"filter"`
}

type readResponse struct {
	Data []core.SessionRecord `json:"data"`
}

// Query reads matching records from every node, merged and deduplicated by
// record id. A node failure is tolerated as long as at least one node answers.
func (c *Client) Query(ctx context.Context, filter vault.Filter) ([]core.SessionRecord, error) {
	if filter == nil {
		filter = vault.Filter{}
	}
	seen := map[string]bool{}
	records := []core.SessionRecord{}
	answered := false
	var lastErr error
	for _, node := range c.nodes {
		var resp readResponse
		if err := c.post(ctx, node, http.MethodPost, "/api/v1/data/read", readRequest{Schema: c.schemaID, Filter: filter}, &resp); err != nil {
			lastErr = err
			c.logger.Warn("vault read failed on node", "node", node.URL, "error", err.Error())
			continue
		}
		answered = true
		for _, rec := range resp.Data {
			if !seen[rec.ID] {
				seen[rec.ID] = true
				records = append(records, rec)
			}
		}
	}
	if !answered {
		return nil, fmt.Errorf("vault query: %w", lastErr)
	}
	return records, nil
}

type deleteRequest struct {
	Schema string       `json:"schema"`
	Filter vault.Filter `json:"filter"`
}

type deleteResponse struct {
	Data int `json:"data"`
}

// Delete removes the records with the given ids from every node. The returned
// count is the largest per-node count, since every node holds a replica.
func (c *Client) Delete(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	filter := vault.Filter{vault.FieldID: map[string]any{"$in": ids}}
	deleted := 0
	answered := false
	var lastErr error
	for _, node := range c.nodes {
		var resp deleteResponse
		if err := c.post(ctx, node, http.MethodPost, "/api/v1/data/delete", deleteRequest{Schema: c.schemaID, Filter: filter}, &resp); err != nil {
			lastErr = err
			c.logger.Warn("vault delete failed on node", "node", node.URL, "error", err.Error())
			continue
		}
		answered = true
		if resp.Data > deleted {
			deleted = resp.Data
		}
	}
	if !answered {
		return 0, fmt.Errorf("vault delete: %w", lastErr)
	}
	return deleted, nil
}

type schemaRequest struct {
	ID     string          `json:"_id"`
	Name   string          `json:"name"`
	Schema json.RawMessage `json:"schema"`
}

// CreateSchema registers a JSON Schema collection on every node and returns
// the minted schema id. Every node must accept the registration.
func (c *Client) CreateSchema(ctx context.Context, name string, schema json.RawMessage) (string, error) {
	id := uuid.NewString()
	req := schemaRequest{ID: id, Name: name, Schema: schema}
	for _, node := range c.nodes {
		if err := c.post(ctx, node, http.MethodPost, "/api/v1/schemas", req, nil); err != nil {
			return "", fmt.Errorf("create schema: %w", err)
		}
	}
	return id, nil
}
