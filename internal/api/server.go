// Package api serves read-only inspection endpoints over a directory of core
// files and their sidecars.
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/corestream/internal/chunktable"
	"github.com/samcharles93/corestream/internal/logger"
	"github.com/samcharles93/corestream/internal/report"
	"github.com/samcharles93/corestream/internal/streammap"
	"github.com/samcharles93/corestream/pkg/core"
)

// maxDocumentSize bounds the .dmf body accepted by the stream map endpoint.
const maxDocumentSize = 64 << 20

type Server struct {
	dir     string
	log     logger.Logger
	metrics *Metrics

	mu     sync.Mutex
	tables *chunktable.Store
}

func NewServer(dir string, log logger.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}
	return &Server{
		dir:     dir,
		log:     log,
		metrics: NewMetrics(),
		tables:  chunktable.NewStore(),
	}
}

// handler computes a status and a JSON body for one request.
type handler func(c *echo.Context) (int, any)

func (s *Server) Register(e *echo.Echo) {
	e.GET("/v1/cores", s.route("list_cores", s.handleListCores))
	e.GET("/v1/cores/:name/blocks", s.route("blocks", s.handleBlocks))
	e.GET("/v1/cores/:name/chunk-tables", s.route("chunk_tables", s.handleChunkTables))
	e.POST("/v1/cores/:name/stream-map", s.route("stream_map", s.handleStreamMap))
	e.GET("/metrics", s.metrics.Handler())
}

func (s *Server) route(name string, h handler) echo.HandlerFunc {
	return func(c *echo.Context) error {
		start := time.Now()
		status, body := h(c)
		s.metrics.observe(name, status, time.Since(start))
		return c.JSON(status, body)
	}
}

func (s *Server) handleListCores(c *echo.Context) (int, any) {
	paths, err := DiscoverCores(s.dir)
	if err != nil {
		return s.serverError(c, err)
	}
	data := make([]CoreFile, 0, len(paths))
	for _, p := range paths {
		st, err := os.Stat(p)
		if err != nil {
			continue
		}
		data = append(data, CoreFile{Name: filepath.Base(p), Size: st.Size()})
	}
	return http.StatusOK, CoreList{Object: "list", Data: data}
}

func (s *Server) handleBlocks(c *echo.Context) (int, any) {
	path, err := resolveCore(s.dir, c.Param("name"))
	if err != nil {
		return lookupError(err)
	}
	limit := 0
	if q := c.QueryParam("limit"); q != "" {
		limit, err = strconv.Atoi(q)
		if err != nil || limit < 0 {
			return badRequest("limit must be a non-negative integer")
		}
	}

	f, err := core.Open(path)
	if err != nil {
		return s.formatError(c, err)
	}
	defer func() { _ = f.Close() }()

	summary, err := report.Summarize(f.Data)
	if err != nil {
		return s.formatError(c, err)
	}
	s.metrics.blocksDecoded.Add(float64(summary.BlockCount))
	if limit > 0 && limit < len(summary.Blocks) {
		summary.Blocks = summary.Blocks[:limit]
	}
	return http.StatusOK, summary
}

func (s *Server) handleChunkTables(c *echo.Context) (int, any) {
	path, err := resolveCore(s.dir, c.Param("name"))
	if err != nil {
		return lookupError(err)
	}
	var primitive uuid.UUID
	q := c.QueryParam("primitive")
	if q != "" {
		primitive, err = uuid.Parse(q)
		if err != nil {
			return badRequest(fmt.Sprintf("invalid primitive guid %q", q))
		}
	}

	s.mu.Lock()
	hit := s.tables.Cached(path)
	layouts, err := s.tables.Load(path)
	s.mu.Unlock()
	s.metrics.tableLoad(hit)
	switch {
	case errors.Is(err, chunktable.ErrMissingSidecar):
		return notFound(err.Error())
	case err != nil:
		return s.formatError(c, err)
	}

	if q != "" {
		return http.StatusOK, ChunkMatches{
			Object:    "list",
			Primitive: primitive.String(),
			Data:      findChunks(layouts, primitive),
		}
	}
	out := ChunkTables{Object: "chunk_tables", VertexSets: make(map[string]VertexSetInfo, len(layouts))}
	for id, vs := range layouts {
		info := VertexSetInfo{VertexCount: vs.VertexCount, Streams: make(map[string]StreamInfo, len(vs.Streams))}
		for role, st := range vs.Streams {
			chunks := make([]ChunkInfo, len(st.Chunks))
			for i, ch := range st.Chunks {
				chunks[i] = chunkInfo(ch)
			}
			info.Streams[role] = StreamInfo{Stride: st.Stride, Chunks: chunks}
		}
		out.VertexSets[id.String()] = info
	}
	return http.StatusOK, out
}

// findChunks collects the chunk owned by primitive in every stream, ordered
// by vertex set and role so responses are stable.
func findChunks(layouts map[uuid.UUID]chunktable.VertexSetLayout, primitive uuid.UUID) []ChunkMatch {
	matches := []ChunkMatch{}
	for _, id := range sortedKeys(layouts, uuid.UUID.String) {
		vs := layouts[id]
		for _, role := range sortedKeys(vs.Streams, func(r string) string { return r }) {
			st := vs.Streams[role]
			ch, ok := st.ChunkFor(primitive)
			if !ok {
				continue
			}
			matches = append(matches, ChunkMatch{
				VertexSet: id.String(),
				Role:      role,
				Stride:    st.Stride,
				Chunk:     chunkInfo(ch),
			})
		}
	}
	return matches
}

func chunkInfo(ch chunktable.Chunk) ChunkInfo {
	return ChunkInfo{
		PrimitiveGUID: ch.PrimitiveGUID.String(),
		Offset:        ch.Offset,
		Length:        ch.Length,
		VertexCount:   ch.VertexCount,
	}
}

func (s *Server) handleStreamMap(c *echo.Context) (int, any) {
	path, err := resolveCore(s.dir, c.Param("name"))
	if err != nil {
		return lookupError(err)
	}
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxDocumentSize+1))
	if err != nil {
		return badRequest(err.Error())
	}
	if len(body) > maxDocumentSize {
		return errorBody(http.StatusRequestEntityTooLarge, "invalid_request_error", "document too large")
	}
	doc, err := streammap.DecodeDocument(body)
	if err != nil {
		return badRequest(err.Error())
	}

	f, err := core.Open(path)
	if err != nil {
		return s.formatError(c, err)
	}
	defer func() { _ = f.Close() }()
	s.metrics.blocksDecoded.Add(float64(len(f.Blocks)))

	m, err := streammap.Build(streammap.InputFrom(f.Container, doc), s.log)
	if err != nil {
		return s.formatError(c, err)
	}
	return http.StatusOK, m
}

func lookupError(err error) (int, any) {
	if errors.Is(err, ErrInvalidRequest) {
		return badRequest(err.Error())
	}
	return notFound(err.Error())
}

// formatError reports input that could not be interpreted. Anything that is
// not a known format error is a server error.
func (s *Server) formatError(c *echo.Context, err error) (int, any) {
	switch {
	case errors.Is(err, core.ErrMalformedContainer),
		errors.Is(err, chunktable.ErrInvalidSidecar),
		errors.Is(err, streammap.ErrUnresolvedReference),
		errors.Is(err, streammap.ErrNoPrimitives):
		return unprocessable(err.Error())
	}
	return s.serverError(c, err)
}

func (s *Server) serverError(c *echo.Context, err error) (int, any) {
	s.log.Error("request failed", "path", c.Request().URL.Path, "error", err)
	return errorBody(http.StatusInternalServerError, "server_error", err.Error())
}
