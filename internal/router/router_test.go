package router

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brownie44l1/http-server/internal/request"
	"github.com/Brownie44l1/http-server/internal/response"
)

func req(method, path string) *request.Request {
	return &request.Request{Method: method, Path: path}
}

func named(name string) Handler {
	return func(*request.Request) (response.Response, error) {
		return response.Text(response.StatusOK, name), nil
	}
}

func TestMatchers(t *testing.T) {
	assert.True(t, Prefix("/echo/")(req("GET", "/echo/abc")))
	assert.True(t, Prefix("/echo/")(req("POST", "/echo/")))
	assert.False(t, Prefix("/echo/")(req("GET", "/echo")))

	assert.True(t, Exact("/")(req("GET", "/")))
	assert.False(t, Exact("/")(req("GET", "/x")))

	assert.True(t, Method("POST", Prefix("/files/"))(req("POST", "/files/a")))
	assert.False(t, Method("POST", Prefix("/files/"))(req("GET", "/files/a")))
}

func TestFirstMatchWins(t *testing.T) {
	r := New()
	r.Handle("specific", Prefix("/a/b"), named("specific"))
	r.Handle("general", Prefix("/a"), named("general"))

	res, err := r.ServeRequest(req("GET", "/a/b/c"))
	require.NoError(t, err)
	assert.Equal(t, "specific", string(res.Body))

	res, err = r.ServeRequest(req("GET", "/a/x"))
	require.NoError(t, err)
	assert.Equal(t, "general", string(res.Body))

	route := r.Match(req("GET", "/a/b"))
	require.NotNil(t, route)
	assert.Equal(t, "specific", route.Name)
	assert.Len(t, r.Routes(), 2)
}

func TestNoMatchIsNotFound(t *testing.T) {
	r := New()
	r.Handle("root", Exact("/"), named("root"))

	assert.Nil(t, r.Match(req("GET", "/nope")))

	res, err := r.ServeRequest(req("GET", "/nope"))
	require.NoError(t, err)
	assert.Equal(t, response.StatusNotFound, res.Status)
	assert.False(t, res.HasBody)
}

func TestCustomNotFound(t *testing.T) {
	r := New()
	r.NotFoundHandler(named("fallback"))

	res, err := r.ServeRequest(req("GET", "/"))
	require.NoError(t, err)
	assert.Equal(t, "fallback", string(res.Body))
}

func TestMiddlewareOrder(t *testing.T) {
	var calls []string
	trace := func(name string) Middleware {
		return func(next Handler) Handler {
			return func(r *request.Request) (response.Response, error) {
				calls = append(calls, name)
				return next(r)
			}
		}
	}

	r := New()
	r.Handle("root", Exact("/"), func(*request.Request) (response.Response, error) {
		calls = append(calls, "handler")
		return response.Empty(response.StatusOK), nil
	})
	r.Use(trace("outer"), trace("inner"))

	_, err := r.ServeRequest(req("GET", "/"))
	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "inner", "handler"}, calls)

	// Middleware also wraps the fallback
	calls = nil
	_, err = r.ServeRequest(req("GET", "/missing"))
	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "inner"}, calls)
}

func TestHandlerErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	r := New()
	r.Handle("bad", Exact("/bad"), func(*request.Request) (response.Response, error) {
		return response.Response{}, boom
	})

	_, err := r.ServeRequest(req("GET", "/bad"))
	assert.ErrorIs(t, err, boom)
}
