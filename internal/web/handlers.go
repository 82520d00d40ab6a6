package web

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/carlosrabelo/unifi2icx/internal/converter"
	"github.com/carlosrabelo/unifi2icx/internal/db"
	"github.com/carlosrabelo/unifi2icx/internal/platform/unifi"
)

const sourceBody = "body"

// outcome is one pipeline run as seen by the handlers
type outcome struct {
	source string
	input  []byte
	result *converter.Result
	output string
	err    error
}

func (s *Server) handleIndex(c *fiber.Ctx) error {
	return c.Render("index", fiber.Map{
		"History": s.recent(pageHistory),
	})
}

func (s *Server) handleIndexConvert(c *fiber.Ctx) error {
	view := fiber.Map{}
	input, source, err := readInput(c)
	if err != nil {
		view["Error"] = err.Error()
	} else {
		o := s.run(source, input)
		view["Source"] = source
		if o.err != nil {
			view["Error"] = "Error converting configuration: " + o.err.Error()
		} else {
			view["Result"] = o.output
		}
	}
	view["History"] = s.recent(pageHistory)
	return c.Render("index", view)
}

func (s *Server) handleConvert(c *fiber.Ctx) error {
	input, source, err := readInput(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	o := s.run(source, input)
	if o.err != nil {
		var formatErr *unifi.FormatError
		if errors.As(o.err, &formatErr) {
			c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
			return c.Status(fiber.StatusBadRequest).SendString(o.err.Error())
		}
		return o.err
	}

	if c.Query("download") == "1" {
		c.Attachment(DownloadName)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(o.output)
}

func (s *Server) handleHistory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultHistory)
	if limit < 1 {
		limit = defaultHistory
	}
	if limit > db.MaxRecent {
		limit = db.MaxRecent
	}
	if s.store == nil {
		return c.JSON([]db.Conversion{})
	}
	conversions, err := s.store.Recent(limit)
	if err != nil {
		return err
	}
	return c.JSON(conversions)
}

// run converts one input, counts it and records it in the history
func (s *Server) run(source string, input []byte) outcome {
	o := outcome{source: source, input: input}

	start := time.Now()
	o.result, o.err = s.conv.Extract(input)
	if o.err == nil {
		o.output = s.conv.Render(o.result)
	}
	elapsed := time.Since(start)

	if o.err != nil {
		s.metrics.observe(resultFormatError, elapsed)
		s.log.Debug().Err(o.err).Str("source", source).Msg("conversion rejected")
	} else {
		s.metrics.observe(resultOK, elapsed)
		s.log.Debug().Str("source", source).Int("vlans", len(o.result.Vlans)).Dur("elapsed", elapsed).Msg("conversion done")
	}
	s.record(o)
	return o
}

func (s *Server) record(o outcome) {
	if s.store == nil {
		return
	}
	sum := sha256.Sum256(o.input)
	entry := &db.Conversion{
		Source:      o.source,
		InputSHA256: hex.EncodeToString(sum[:]),
		OutputBytes: len(o.output),
	}
	if o.err != nil {
		entry.Error = o.err.Error()
	} else {
		entry.VlanCount = len(o.result.Vlans)
		entry.DisabledPorts = o.result.DisabledPorts()
		entry.ManagementVlan = o.result.HasVlan(s.managementVlan())
	}
	if err := s.store.Record(entry); err != nil {
		s.log.Warn().Err(err).Msg("failed to record conversion")
	}
}

func (s *Server) managementVlan() string {
	if p, ok := s.conv.Profile(); ok {
		return p.ManagementVlan
	}
	return ""
}

func (s *Server) recent(limit int) []db.Conversion {
	if s.store == nil {
		return nil
	}
	conversions, err := s.store.Recent(limit)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to load history")
		return nil
	}
	return conversions
}

// readInput takes the multipart "file" field when present, the raw body
// otherwise. The returned slice is owned by the caller.
func readInput(c *fiber.Ctx) ([]byte, string, error) {
	if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, "", fmt.Errorf("missing file field: %v", err)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, "", fmt.Errorf("error reading file: %v", err)
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, "", fmt.Errorf("error reading file: %v", err)
		}
		return data, fh.Filename, nil
	}
	return append([]byte(nil), c.Body()...), sourceBody, nil
}
