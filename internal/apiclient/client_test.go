package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/oauth2"

	"contacts-admin/internal/config"
	"contacts-admin/internal/models"
	"contacts-admin/internal/utils"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, payload any) *http.Response {
	blob, _ := json.Marshal(payload)
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(string(blob))),
		Header:     make(http.Header),
	}
}

func newTestClient(rt roundTripFunc) *Client {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewClient(Config{
		BaseURL:      "https://example.test/api/v1/",
		RateLimitRPS: 1000,
		PageSize:     2,
		Transport:    rt,
	}, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test", TokenType: "Bearer"}), logger)
}

func TestClient_Create(t *testing.T) {
	Convey("Client.Create", t, func() {
		ctx := context.Background()
		record := models.ContactRecord{Name: "Ahmet", Surname: "Yılmaz", Gender: models.GenderMale, CategoryID: 1}

		Convey("posts the record with the bearer token", func() {
			var sent models.ContactRecord
			client := newTestClient(func(r *http.Request) (*http.Response, error) {
				So(r.Method, ShouldEqual, http.MethodPost)
				So(r.URL.Path, ShouldEqual, "/api/v1/contacts")
				So(r.Header.Get("Authorization"), ShouldEqual, "Bearer test")
				So(json.NewDecoder(r.Body).Decode(&sent), ShouldBeNil)
				return jsonResponse(http.StatusCreated, map[string]any{
					"success": true, "message": "created", "data": map[string]any{"id": 9},
				}), nil
			})

			res, err := client.Create(ctx, record)
			So(err, ShouldBeNil)
			So(res.Success, ShouldBeTrue)
			So(res.ID, ShouldEqual, 9)
			So(sent.Name, ShouldEqual, "Ahmet")
			So(sent.Gender, ShouldEqual, "ERKEK")
		})

		Convey("returns an enveloped rejection as a failed result", func() {
			client := newTestClient(func(r *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusUnprocessableEntity, map[string]any{
					"success": false, "message": "TC number already registered",
				}), nil
			})

			res, err := client.Create(ctx, record)
			So(err, ShouldBeNil)
			So(res.Success, ShouldBeFalse)
			So(res.Message, ShouldEqual, "TC number already registered")
		})

		Convey("falls back to the error field of the envelope", func() {
			client := newTestClient(func(r *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusBadRequest, map[string]any{"success": false, "error": "bad gender"}), nil
			})

			res, err := client.Create(ctx, record)
			So(err, ShouldBeNil)
			So(res.Message, ShouldEqual, "bad gender")
		})

		Convey("treats a bare error status as a call error", func() {
			calls := 0
			client := newTestClient(func(r *http.Request) (*http.Response, error) {
				calls++
				return &http.Response{
					StatusCode: http.StatusBadGateway,
					Body:       io.NopCloser(strings.NewReader("<html>bad gateway</html>")),
					Header:     make(http.Header),
				}, nil
			})

			_, err := client.Create(ctx, record)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "status=502")
			So(calls, ShouldEqual, 1)
		})

		Convey("returns transport failures", func() {
			client := newTestClient(func(r *http.Request) (*http.Response, error) {
				return nil, errors.New("connection refused")
			})

			_, err := client.Create(ctx, record)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "connection refused")
		})
	})
}

func TestClient_FetchAll(t *testing.T) {
	Convey("Client.FetchAll pages until has_more is false", t, func() {
		attempt := 0
		var pages []string
		client := newTestClient(func(r *http.Request) (*http.Response, error) {
			So(r.Method, ShouldEqual, http.MethodGet)
			So(r.URL.Path, ShouldEqual, "/api/v1/contacts")
			So(r.URL.Query().Get("category_id"), ShouldEqual, "3")
			So(r.URL.Query().Get("search"), ShouldEqual, "ah")
			So(r.URL.Query().Get("limit"), ShouldEqual, "2")

			attempt++
			if attempt == 1 {
				return jsonResponse(http.StatusServiceUnavailable, map[string]any{"error": "busy"}), nil
			}

			page := r.URL.Query().Get("page")
			pages = append(pages, page)
			if page == "1" {
				return jsonResponse(http.StatusOK, map[string]any{
					"success":    true,
					"data":       []map[string]any{{"id": 1, "name": "Ahmet"}, {"id": 2, "name": "Ahu"}},
					"pagination": map[string]any{"has_more": true},
				}), nil
			}
			return jsonResponse(http.StatusOK, map[string]any{
				"success":    true,
				"data":       []map[string]any{{"id": 3, "name": "Ahsen", "gender": "female"}},
				"pagination": map[string]any{"has_more": false},
			}), nil
		})

		contacts, err := client.FetchAll(context.Background(), models.ContactFilter{Search: "ah", CategoryID: 3})
		So(err, ShouldBeNil)
		So(len(contacts), ShouldEqual, 3)
		So(contacts[2].Gender, ShouldEqual, "female")
		So(pages, ShouldResemble, []string{"1", "2"})
	})

	Convey("Client.FetchAll fails on an unsuccessful envelope", t, func() {
		client := newTestClient(func(r *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, map[string]any{"success": false, "message": "forbidden"}), nil
		})

		_, err := client.FetchAll(context.Background(), models.ContactFilter{})
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "forbidden")
	})
}

func TestTokenSources(t *testing.T) {
	Convey("JWTTokenSource mints tokens the API middleware accepts", t, func() {
		tok, err := JWTTokenSource{Secret: "shared", TTL: time.Minute}.Token()
		So(err, ShouldBeNil)
		So(tok.Valid(), ShouldBeTrue)

		claims, err := utils.ValidateToken(tok.AccessToken, "shared")
		So(err, ShouldBeNil)
		So(claims.Role, ShouldEqual, "service")
	})

	Convey("TokenSourceFromConfig prefers a static token over minting", t, func() {
		cfg := &config.Config{ContactAPIToken: " abc ", JWTSecret: "shared"}
		tok, err := TokenSourceFromConfig(context.Background(), cfg).Token()
		So(err, ShouldBeNil)
		So(tok.AccessToken, ShouldEqual, "abc")

		cfg.ContactAPIToken = ""
		tok, err = TokenSourceFromConfig(context.Background(), cfg).Token()
		So(err, ShouldBeNil)
		_, err = utils.ValidateToken(tok.AccessToken, "shared")
		So(err, ShouldBeNil)
	})
}

func TestRateLimiter(t *testing.T) {
	Convey("RateLimiter.WaitTurn", t, func() {
		limiter := NewRateLimiter(1)
		So(limiter.WaitTurn(context.Background()), ShouldBeNil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		So(limiter.WaitTurn(ctx), ShouldEqual, context.Canceled)

		Convey("gives up when the next slot is past the deadline", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
			defer cancel()
			So(limiter.WaitTurn(ctx), ShouldNotBeNil)
		})
	})

	Convey("RateLimiter paces consecutive turns", t, func() {
		limiter := NewRateLimiter(20)
		start := time.Now()
		for i := 0; i < 3; i++ {
			So(limiter.WaitTurn(context.Background()), ShouldBeNil)
		}
		So(time.Since(start), ShouldBeGreaterThanOrEqualTo, 80*time.Millisecond)
	})
}
