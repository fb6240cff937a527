package geom

import (
	"bufio"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/wkt"
	"go.uber.org/zap"
)

// ParseWKT reads one geometry per non-empty line. Lines that fail to parse
// are skipped; it is an error when none parse. WKT carries no attributes.
func ParseWKT(src string) (Collection, error) {
	s := strings.TrimSpace(src)
	if s == "" {
		return Collection{}, eris.New("geom: empty wkt")
	}
	var c Collection
	var firstErr error
	sc := bufio.NewScanner(strings.NewReader(s))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		txt := strings.TrimSpace(sc.Text())
		if txt == "" || strings.HasPrefix(txt, "#") {
			continue
		}
		g, err := wkt.Unmarshal(txt)
		if err != nil {
			if firstErr == nil {
				firstErr = eris.Wrapf(err, "geom: wkt line %d", line)
			}
			zap.L().Debug("geom: skipping wkt line", zap.Int("line", line), zap.Error(err))
			continue
		}
		c.add(Feature{Geometry: g})
	}
	if err := sc.Err(); err != nil {
		return Collection{}, eris.Wrap(err, "geom: scan wkt")
	}
	if len(c.Features) == 0 {
		if firstErr != nil {
			return Collection{}, firstErr
		}
		return Collection{}, eris.New("geom: wkt: no geometries parsed")
	}
	return c, nil
}
