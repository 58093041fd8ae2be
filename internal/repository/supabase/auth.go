package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"groceryMarket/domain"

	"github.com/tidwall/gjson"
)

// CreateIdentity registers a confirmed user through the admin API so the caller
// can continue without an email round trip.
func (c *Client) CreateIdentity(ctx context.Context, email, password string, metadata map[string]string) (domain.Identity, error) {
	body, err := json.Marshal(map[string]interface{}{
		"email":         email,
		"password":      password,
		"email_confirm": true,
		"user_metadata": metadata,
	})
	if err != nil {
		return domain.Identity{}, fmt.Errorf("marshal request: %w", err)
	}

	respBody, statusCode, err := c.requestWithServiceKey(ctx, http.MethodPost, c.authURL+"/admin/users", body)
	if err != nil {
		return domain.Identity{}, err
	}

	if statusCode >= 400 {
		apiErr := parseError(respBody, statusCode)
		if statusCode == http.StatusUnprocessableEntity || statusCode == http.StatusConflict {
			return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrConflict, apiErr)
		}
		return domain.Identity{}, apiErr
	}

	return identityFrom(gjson.ParseBytes(respBody))
}

func (c *Client) DeleteIdentity(ctx context.Context, id string) error {
	respBody, statusCode, err := c.requestWithServiceKey(ctx, http.MethodDelete, c.authURL+"/admin/users/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}

	if statusCode >= 400 {
		return parseError(respBody, statusCode)
	}

	return nil
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (domain.Identity, error) {
	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return domain.Identity{}, fmt.Errorf("marshal request: %w", err)
	}

	respBody, statusCode, err := c.request(ctx, http.MethodPost, c.authURL+"/token?grant_type=password", body)
	if err != nil {
		return domain.Identity{}, err
	}

	if statusCode >= 400 {
		apiErr := parseError(respBody, statusCode)
		if statusCode == http.StatusBadRequest || statusCode == http.StatusUnauthorized {
			return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, apiErr)
		}
		return domain.Identity{}, apiErr
	}

	return identityFrom(gjson.GetBytes(respBody, "user"))
}

func identityFrom(user gjson.Result) (domain.Identity, error) {
	id := user.Get("id").String()
	if id == "" {
		return domain.Identity{}, errors.New("auth response carries no user id")
	}

	return domain.Identity{
		ID:    id,
		Email: user.Get("email").String(),
	}, nil
}
