// Package server runs the proxy outside Lambda. GET / serves the prompt page;
// every other request is translated into an API Gateway event and handed to
// the same handler the Lambda uses.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/dmorgan81/pixelproxy/internal/handler"
	"github.com/dmorgan81/pixelproxy/internal/log"
	"github.com/dmorgan81/pixelproxy/internal/page"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	handler   *handler.Handler
	templator *page.Templator
	endpoint  string
	addr      string
}

func New(h *handler.Handler, templator *page.Templator, endpoint, addr string) *Server {
	return &Server{handler: h, templator: templator, endpoint: endpoint, addr: addr}
}

func NewServer(i *do.Injector) (*Server, error) {
	return New(
		do.MustInvoke[*handler.Handler](i),
		do.MustInvoke[*page.Templator](i),
		do.MustInvokeNamed[string](i, "endpoint"),
		do.MustInvokeNamed[string](i, "listen_addr"),
	), nil
}

// Router builds the gin engine. ctx supplies the base logger for requests.
func (s *Server) Router(ctx context.Context) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(ctx))
	r.GET("/", s.index)
	r.NoRoute(s.proxy)
	return r
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	log := log.FromContextOrDiscard(ctx).WithGroup("Server").With("addr", s.addr)
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	})
	return group.Wait()
}

func requestLogger(base context.Context) gin.HandlerFunc {
	logger := log.FromContextOrDiscard(base)
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-Id", id)
		c.Set("request_id", id)
		ctx := log.NewContext(c.Request.Context(), logger)
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()
		logger.Info("request",
			"request_id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

func (s *Server) index(c *gin.Context) {
	html, err := s.templator.Template(c.Request.Context(), page.Params{Endpoint: s.endpoint})
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

func (s *Server) proxy(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.Output{Error: err.Error()})
		return
	}

	var event events.APIGatewayV2HTTPRequest
	event.RawPath = c.Request.URL.Path
	event.RawQueryString = c.Request.URL.RawQuery
	event.Body = string(body)
	event.RequestContext.RequestID = c.GetString("request_id")
	event.RequestContext.HTTP.Method = c.Request.Method
	event.RequestContext.HTTP.Path = c.Request.URL.Path
	event.RequestContext.HTTP.SourceIP = c.ClientIP()
	event.RequestContext.HTTP.UserAgent = c.Request.UserAgent()

	resp, err := s.handler.Handle(c.Request.Context(), event)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.Output{Error: err.Error()})
		return
	}
	for k, v := range resp.Headers {
		c.Header(k, v)
	}
	c.Status(resp.StatusCode)
	_, _ = c.Writer.WriteString(resp.Body)
}
