// Package handlers wires the server's routes: echo, user-agent, file
// storage and the home page.
package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Brownie44l1/http-server/internal/filestore"
	"github.com/Brownie44l1/http-server/internal/request"
	"github.com/Brownie44l1/http-server/internal/response"
	"github.com/Brownie44l1/http-server/internal/router"
)

const (
	EchoPrefix      = "/echo/"
	UserAgentPrefix = "/user-agent"
	FilesPrefix     = "/files/"

	WelcomeMessage = "Welcome to the home page!"
	octetStream    = "application/octet-stream"
)

// ErrMissingBody is returned for a file upload without a body section.
var ErrMissingBody = errors.New("request has no body")

// New builds the router with every route in precedence order
func New(store filestore.Store) *router.Router {
	r := router.New()
	r.Handle("echo", router.Prefix(EchoPrefix), Echo)
	r.Handle("user-agent", router.Prefix(UserAgentPrefix), UserAgent)
	r.Handle("files", router.Prefix(FilesPrefix), Files(store))
	r.Handle("home", router.Exact("/"), Home)
	return r
}

// Echo answers with the path remainder after /echo/
func Echo(req *request.Request) (response.Response, error) {
	return response.Text(response.StatusOK, strings.TrimPrefix(req.Path, EchoPrefix)), nil
}

// UserAgent answers with the first User-Agent header, or 500 without one
func UserAgent(req *request.Request) (response.Response, error) {
	ua, ok := req.Header("user-agent")
	if !ok {
		return response.Empty(response.StatusInternalServerError), nil
	}
	return response.Text(response.StatusOK, ua), nil
}

// Home serves the welcome message
func Home(*request.Request) (response.Response, error) {
	return response.Text(response.StatusOK, WelcomeMessage), nil
}

// Files reads (GET) and writes (POST) files in store
func Files(store filestore.Store) router.Handler {
	return func(req *request.Request) (response.Response, error) {
		name := strings.TrimPrefix(req.Path, FilesPrefix)

		switch req.Method {
		case "POST":
			if !req.HasBody {
				return response.Response{}, fmt.Errorf("POST %s: %w", req.Path, ErrMissingBody)
			}
			if err := store.Write(name, req.Body); err != nil {
				return response.Response{}, fmt.Errorf("%w: %w", filestore.ErrIO, err)
			}
			return response.Empty(response.StatusCreated), nil

		case "GET":
			if !store.Exists(name) {
				return response.Empty(response.StatusNotFound), nil
			}
			data, err := store.Read(name)
			if err != nil {
				return response.Response{}, fmt.Errorf("%w: %w", filestore.ErrIO, err)
			}
			return response.Bytes(response.StatusOK, octetStream, data), nil

		default:
			return response.Empty(response.StatusNotFound), nil
		}
	}
}
