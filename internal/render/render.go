package render

import (
	"bytes"
	"fmt"
	"html/template"

	"beauty/advisor/internal/domain"
	"beauty/advisor/internal/selection"
)

const (
	NoMatchesMessage   = "No products match your search"
	NoSelectionMessage = "No products selected"
)

type cardView struct {
	Product  domain.Product
	Selected bool
	Expanded bool
}

var gridTmpl = template.Must(template.New("grid").Parse(`{{if not .}}<div class="placeholder-message">` + NoMatchesMessage + `</div>{{end}}
{{- range .}}
<div class="product-card{{if .Selected}} selected{{end}}" data-name="{{.Product.Name}}">
  <img src="{{.Product.Image}}" alt="{{.Product.Name}}">
  <div class="product-info">
    <h3>{{.Product.Name}}</h3>
    <p>{{.Product.Brand}}</p>
    <button class="desc-toggle-btn" data-name="{{.Product.Name}}" aria-expanded="{{if .Expanded}}true{{else}}false{{end}}">{{if .Expanded}}Hide Description{{else}}Show Description{{end}}</button>
    <div class="product-desc{{if .Expanded}} expanded{{end}}" aria-hidden="{{if .Expanded}}false{{else}}true{{end}}">{{.Product.Description}}</div>
  </div>
</div>
{{- end}}`))

var selectedTmpl = template.Must(template.New("selected").Parse(`{{if not .}}<div class="placeholder-message">` + NoSelectionMessage + `</div>{{end}}
{{- range .}}
<div class="selected-product-item">
  {{.Name}}
  <button title="Remove" data-name="{{.Name}}">&times;</button>
</div>
{{- end}}`))

// Grid renders the visible products of s as cards. Output depends only on s.
func Grid(s selection.State) (template.HTML, error) {
	visible := s.Visible()
	cards := make([]cardView, 0, len(visible))
	for _, p := range visible {
		cards = append(cards, cardView{
			Product:  p,
			Selected: s.IsSelected(p.Name),
			Expanded: s.Expanded[p.Name],
		})
	}

	var buf bytes.Buffer
	if err := gridTmpl.Execute(&buf, cards); err != nil {
		return "", fmt.Errorf("failed to render product grid: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// SelectedList renders the selected products as removable chips
func SelectedList(selected []domain.Product) (template.HTML, error) {
	var buf bytes.Buffer
	if err := selectedTmpl.Execute(&buf, selected); err != nil {
		return "", fmt.Errorf("failed to render selected list: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Fragments is the pair of containers swapped on every state change
type Fragments struct {
	Grid     template.HTML `json:"grid"`
	Selected template.HTML `json:"selected"`
}

func Render(s selection.State) (Fragments, error) {
	grid, err := Grid(s)
	if err != nil {
		return Fragments{}, err
	}
	selected, err := SelectedList(s.Selected)
	if err != nil {
		return Fragments{}, err
	}
	return Fragments{Grid: grid, Selected: selected}, nil
}
