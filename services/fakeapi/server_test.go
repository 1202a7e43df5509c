package fakeapi

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xorcare/pointer"

	"github.com/nvbf/event-seed/pkg/auth"
	"github.com/nvbf/event-seed/pkg/rpc"
	"github.com/nvbf/event-seed/repos/eventapi"
	"github.com/nvbf/event-seed/repos/images"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newTestServer(t *testing.T, opts RouterOptions) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if opts.Service == nil {
		opts.Service = NewFakeAPIService(NewMemoryStore(), nil)
	}
	router, err := NewRouter(opts)
	require.NoError(t, err)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func newClients(server *httptest.Server, basePath, token string) (*eventapi.Service, *images.Service) {
	apiURL := server.URL + basePath
	transport := rpc.NewGRPCWebTransport(apiURL, token, server.Client(), "run-1")
	return eventapi.NewService(transport, nil), images.NewService(server.Client(), apiURL, token, "run-1", nil)
}

func TestRouterServesEventAPIOverGRPCWeb(t *testing.T) {
	server := newTestServer(t, RouterOptions{BasePath: "/api"})
	events, imageService := newClients(server, "/api", "")
	ctx := context.Background()

	user, err := events.CreateUser(ctx, eventapi.CreateUserRequest{Name: "Kari"})
	require.NoError(t, err)
	foundUser, err := events.FindUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, *user, *foundUser)

	tag, err := events.CreateTag(ctx, eventapi.CreateTagRequest{Name: "Beach", Aliases: []string{"sand"}})
	require.NoError(t, err)
	foundTag, err := events.FindTag(ctx, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"sand"}, foundTag.Aliases)

	event, err := events.CreateEvent(ctx, eventapi.CreateEventRequest{
		AuthorID:  user.ID,
		Title:     "Cup",
		TagIDs:    []string{tag.ID},
		Attending: pointer.Bool(true),
	})
	require.NoError(t, err)

	imageID, err := imageService.Upload(ctx, event.ID, &images.Image{Name: "cup.png", ContentType: "image/png", Data: pngBytes})
	require.NoError(t, err)
	assert.NotEmpty(t, imageID)

	foundEvent, err := events.FindEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, foundEvent.AuthorID)
	assert.True(t, foundEvent.Attending)
	assert.Equal(t, []string{imageID}, foundEvent.ImageIDs)
}

func TestRouterMapsErrorsToStatusCodes(t *testing.T) {
	server := newTestServer(t, RouterOptions{})
	events, imageService := newClients(server, "", "")
	ctx := context.Background()

	_, err := events.FindEvent(ctx, "ghost")
	assert.ErrorIs(t, err, eventapi.ErrNotFound)

	_, err = events.CreateUser(ctx, eventapi.CreateUserRequest{})
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	_, err = events.CreateEvent(ctx, eventapi.CreateEventRequest{AuthorID: "ghost", Title: "Cup"})
	assert.Equal(t, connect.CodeFailedPrecondition, connect.CodeOf(err))

	_, err = imageService.Upload(ctx, "ghost", &images.Image{Name: "a.png", ContentType: "image/png", Data: pngBytes})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
}

func TestUploadRequiresFile(t *testing.T) {
	server := newTestServer(t, RouterOptions{})

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("title", "no file"))
	require.NoError(t, writer.Close())

	res, err := server.Client().Post(server.URL+"/events/e-1/images", writer.FormDataContentType(), body)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestRouterRequiresToken(t *testing.T) {
	server := newTestServer(t, RouterOptions{Verifier: auth.StaticVerifier{Token: "secret"}})
	ctx := context.Background()

	anonymous, _ := newClients(server, "", "")
	_, err := anonymous.CreateUser(ctx, eventapi.CreateUserRequest{Name: "Kari"})
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	authorized, _ := newClients(server, "", "secret")
	_, err = authorized.CreateUser(ctx, eventapi.CreateUserRequest{Name: "Kari"})
	assert.NoError(t, err)

	res, err := server.Client().Get(server.URL + "/healthz")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode, "health check is not behind auth")
}

func TestRouterCORSPreflight(t *testing.T) {
	server := newTestServer(t, RouterOptions{CORSHosts: []string{"http://localhost:3000"}})

	req, err := http.NewRequest(http.MethodOptions, server.URL+eventapi.CreateUserProcedure, nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "content-type,x-grpc-web")

	res, err := server.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Equal(t, "http://localhost:3000", res.Header.Get("Access-Control-Allow-Origin"))
}

func TestNewRouterRejectsBadOrigins(t *testing.T) {
	_, err := NewRouter(RouterOptions{
		Service:   NewFakeAPIService(NewMemoryStore(), nil),
		CORSHosts: []string{"localhost:3000"},
	})
	assert.ErrorContains(t, err, "invalid CORS config")
}

func TestConnectError(t *testing.T) {
	assert.Equal(t, connect.CodeInternal, connect.CodeOf(connectError(assert.AnError)))
	assert.Equal(t, connect.CodeCanceled, connect.CodeOf(connectError(context.Canceled)))
}
