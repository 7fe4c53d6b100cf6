// Package client is the Yboost API client used by the terminal front-end:
// plain HTTP for catalog, auth and collection calls, plus a WebSocket
// subscription for collection-changed events.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"time"

	"github.com/yboost/yboost/pkg/catalog"
)

// HTTPClient makes REST calls to the Yboost server. The session cookie set
// by login/register is carried in the jar, so one client is one identity.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a client targeting the given base URL
// (e.g. "http://127.0.0.1:3000").
func NewHTTPClient(baseURL string) (*HTTPClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second, Jar: jar},
	}, nil
}

// Register creates an account and establishes the session.
func (c *HTTPClient) Register(pseudo, password string) (*AuthResponse, error) {
	var out AuthResponse
	err := c.post("/api/register", map[string]string{"pseudo": pseudo, "password": password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates and establishes the session.
func (c *HTTPClient) Login(pseudo, password string) (*AuthResponse, error) {
	var out AuthResponse
	err := c.post("/api/login", map[string]string{"pseudo": pseudo, "password": password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout drops the server session.
func (c *HTTPClient) Logout() error {
	return c.post("/api/logout", nil, nil)
}

// Session fetches the current authentication state.
func (c *HTTPClient) Session() (*SessionResponse, error) {
	var out SessionResponse
	if err := c.get("/api/session", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Catalog fetches the full skin catalog and builds the character index.
func (c *HTTPClient) Catalog() (*catalog.Catalog, error) {
	var raw map[string]catalog.Skin
	if err := c.get("/api/skins", &raw); err != nil {
		return nil, err
	}
	skins := make([]catalog.Skin, 0, len(raw))
	for _, s := range raw {
		skins = append(skins, s)
	}
	return catalog.New(skins), nil
}

// Boosters fetches the configured pack definitions.
func (c *HTTPClient) Boosters() ([]Booster, error) {
	var out boostersResponse
	if err := c.get("/api/boosters", &out); err != nil {
		return nil, err
	}
	return out.Boosters, nil
}

// ListSkins fetches the owned collection, most recent first.
func (c *HTTPClient) ListSkins() (*CollectionResponse, error) {
	var out CollectionResponse
	if err := c.get("/api/user/skins", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddSkins commits a batch of awards to the collection.
func (c *HTTPClient) AddSkins(awards []Award) error {
	return c.post("/api/user/skins", map[string]interface{}{"skins": awards}, nil)
}

// RemoveSkin deletes every owned copy of the skin.
func (c *HTTPClient) RemoveSkin(skinID int) error {
	req, err := http.NewRequest(http.MethodDelete, c.baseURL+"/api/user/skins/"+strconv.Itoa(skinID), nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return apiError("DELETE /api/user/skins", resp)
	}
	return nil
}

// WSURL derives the websocket endpoint from the base URL.
func (c *HTTPClient) WSURL() string {
	url := c.baseURL
	switch {
	case len(url) > 8 && url[:8] == "https://":
		url = "wss://" + url[8:]
	case len(url) > 7 && url[:7] == "http://":
		url = "ws://" + url[7:]
	}
	return url + "/ws"
}

// SessionCookie returns the current session cookie header value, for the
// websocket dial.
func (c *HTTPClient) SessionCookie() string {
	u, err := http.NewRequest(http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return ""
	}
	cookies := c.client.Jar.Cookies(u.URL)
	for _, ck := range cookies {
		if ck.Name == "yboost_session" {
			return ck.Name + "=" + ck.Value
		}
	}
	return ""
}

func (c *HTTPClient) get(path string, out interface{}) error {
	resp, err := c.client.Get(c.baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return apiError("GET "+path, resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *HTTPClient) post(path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	resp, err := c.client.Post(c.baseURL+path, "application/json", reader)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return apiError("POST "+path, resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// apiError extracts the server's {"error": msg} body when present so the
// human-readable message survives the trip.
func apiError(op string, resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
		return fmt.Errorf("%s: %s", op, payload.Error)
	}
	return fmt.Errorf("%s: status %d", op, resp.StatusCode)
}
