// Package linkedin содержит клиент LinkedIn API: обмен кода авторизации
// на токен доступа и публикация постов от имени участника.
package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	clientID     string
	clientSecret string
	redirectURL  string
	authURL      string
	apiURL       string
	httpClient   *http.Client
}

// NewClient создаёт новый клиент LinkedIn API
func NewClient(clientID, clientSecret, redirectURL string) *Client {
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURL:  redirectURL,
		authURL:      "https://www.linkedin.com/oauth/v2",
		apiURL:       "https://api.linkedin.com/v2",
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthorizeURL возвращает адрес страницы согласия LinkedIn,
// на которую нужно перенаправить пользователя.
func (c *Client) AuthorizeURL(state string) string {
	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", c.clientID)
	params.Set("redirect_uri", c.redirectURL)
	params.Set("state", state)
	params.Set("scope", "openid profile w_member_social")
	return c.authURL + "/authorization?" + params.Encode()
}

// ExchangeCode обменивает код авторизации на токен доступа
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("redirect_uri", c.redirectURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.authURL+"/accessToken", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("unexpected status: " + resp.Status)
	}

	var tokenResp TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, err
	}
	return &tokenResp, nil
}

// GetUserInfo возвращает профиль владельца токена, включая его URN
func (c *Client) GetUserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/userinfo", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("unexpected status: " + resp.Status)
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}

// PublishPost публикует текстовый пост от имени участника и возвращает
// идентификатор созданной публикации.
func (c *Client) PublishPost(ctx context.Context, accessToken, authorURN, text string) (string, error) {
	body := newUGCPostRequest(authorURN, text)
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/ugcPosts", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", errors.New("unexpected status: " + resp.Status)
	}

	var postResp UGCPostResponse
	if err := json.NewDecoder(resp.Body).Decode(&postResp); err != nil {
		return "", err
	}
	return postResp.ID, nil
}
