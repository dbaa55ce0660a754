package api

import (
	"bytes"
	"html/template"

	"github.com/bobby-s-dev/weather-report/internal/models"
	"github.com/gofiber/fiber/v2"
)

type pageData struct {
	City      string
	Report    string
	Failed    bool
	Narration bool
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>🌦️ Información Climática</title>
<style>
body { font-family: sans-serif; max-width: 40rem; margin: 3rem auto; }
.report { margin-top: 1.5rem; padding: 1rem; border-radius: .5rem; background: #eef6ff; }
.report.error { background: #ffecec; }
</style>
</head>
<body>
<h1>🌦️ Información Climática</h1>
<form method="get" action="/" onsubmit="this.querySelector('button').disabled = true">
<label for="city">🏙️ Ciudad:</label>
<input id="city" name="city" value="{{.City}}" autofocus>
{{if .Narration}}<label><input type="checkbox" name="narrate" value="1"> ✨</label>{{end}}
<button type="submit">Consultar</button>
</form>
{{if .Report}}
<h2>📝 Reporte del Clima</h2>
<p class="report{{if .Failed}} error{{end}}">{{.Report}}</p>
{{end}}
</body>
</html>
`))

// GetPage handles GET /. An empty city renders the bare form and fetches nothing.
func (h *Handler) GetPage(c *fiber.Ctx) error {
	data := pageData{
		City:      cityParam(c),
		Narration: h.narrator != nil,
	}

	if data.City != "" {
		result, report := h.pipeline.Result(c.UserContext(), data.City)
		data.Report = h.maybeNarrate(c, result, report)
		data.Failed = !models.IsSuccess(result)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render page")
	}

	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}
