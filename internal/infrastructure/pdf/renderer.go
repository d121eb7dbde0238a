// Package pdf renders resumes to PDF with go-pdf/fpdf.
package pdf

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/resumeforge/resume-api/internal/core/domain"
)

const (
	margin     = 20.0
	lineHeight = 6.0
)

var primary = [3]int{44, 86, 134}

// Renderer implements ports.PDFRenderer with a single classic layout. The
// template name stored on a resume does not change the output.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// personalInfo is the JSON shape clients store in Resume.PersonalInfo.
// Anything that does not decode as this object is printed verbatim.
type personalInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

func (p personalInfo) fullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Render writes resume as an A4 PDF document to w.
func (r *Renderer) Render(w io.Writer, resume *domain.Resume) error {
	if resume == nil {
		return fmt.Errorf("render pdf: nil resume")
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(margin, margin, margin)
	doc.SetAutoPageBreak(true, margin)
	doc.SetTitle(resume.Title, true)
	doc.AddPage()

	p := &page{doc: doc, tr: doc.UnicodeTranslatorFromDescriptor("")}
	p.header(resume)
	p.summary(resume.Summary)
	p.experiences(resume.Experiences)
	p.educations(resume.Educations)
	p.skills(resume.Skills)

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

type page struct {
	doc *fpdf.Fpdf
	tr  func(string) string
}

func (p *page) font(style string, size float64) {
	p.doc.SetFont("Times", style, size)
}

func (p *page) text(s string) {
	p.doc.MultiCell(0, lineHeight, p.tr(s), "", "L", false)
}

func (p *page) centered(s string) {
	p.doc.CellFormat(0, lineHeight+2, p.tr(s), "", 1, "C", false, 0, "")
}

func (p *page) section(title string) {
	p.doc.Ln(4)
	p.doc.SetTextColor(primary[0], primary[1], primary[2])
	p.font("B", 15)
	p.doc.CellFormat(0, lineHeight+2, p.tr(title), "", 1, "L", false, 0, "")
	p.doc.SetTextColor(0, 0, 0)
}

func (p *page) header(resume *domain.Resume) {
	p.doc.SetTextColor(primary[0], primary[1], primary[2])
	p.font("B", 22)
	p.centered(resume.Title)
	p.doc.SetTextColor(0, 0, 0)

	raw := strings.TrimSpace(resume.PersonalInfo)
	var info personalInfo
	if strings.HasPrefix(raw, "{") && json.Unmarshal([]byte(raw), &info) == nil {
		if name := info.fullName(); name != "" {
			p.font("B", 16)
			p.centered(name)
		}
		p.font("", 12)
		if contact := joinNonEmpty(" | ", info.Email, info.Phone); contact != "" {
			p.centered(contact)
		}
		if info.Address != "" {
			p.centered(info.Address)
		}
	} else if raw != "" {
		p.font("", 12)
		p.text(raw)
	}

	y := p.doc.GetY() + 3
	pageW, _ := p.doc.GetPageSize()
	p.doc.SetDrawColor(primary[0], primary[1], primary[2])
	p.doc.SetLineWidth(0.6)
	p.doc.Line(margin, y, pageW-margin, y)
	p.doc.SetY(y + 3)
}

func (p *page) summary(s string) {
	if strings.TrimSpace(s) == "" {
		return
	}
	p.section("Professional Summary")
	p.font("", 12)
	p.text(s)
}

func (p *page) experiences(list []domain.Experience) {
	if len(list) == 0 {
		return
	}
	p.section("Work Experience")
	for _, e := range list {
		p.font("B", 13)
		p.text(joinNonEmpty(" - ", e.Position, e.Company))

		end := e.EndDate
		if e.IsCurrent {
			end = "Present"
		}
		p.font("I", 11)
		p.text(joinNonEmpty(" | ", e.Location, joinNonEmpty(" - ", e.StartDate, end)))

		if e.Description != "" {
			p.font("", 12)
			p.text(e.Description)
		}
		p.doc.Ln(2)
	}
}

func (p *page) educations(list []domain.Education) {
	if len(list) == 0 {
		return
	}
	p.section("Education")
	for _, e := range list {
		degree := e.Degree
		if degree != "" && e.FieldOfStudy != "" {
			degree += " in " + e.FieldOfStudy
		}
		p.font("B", 13)
		p.text(joinNonEmpty(" - ", degree, e.Institution))

		if dates := joinNonEmpty(" - ", e.StartDate, e.EndDate); dates != "" {
			p.font("I", 11)
			p.text(dates)
		}
		if e.Description != "" {
			p.font("", 12)
			p.text(e.Description)
		}
		p.doc.Ln(2)
	}
}

func (p *page) skills(list []domain.Skill) {
	if len(list) == 0 {
		return
	}
	p.section("Skills")
	p.font("", 12)
	for _, s := range list {
		line := s.Name
		if s.ProficiencyLevel != "" {
			line += " (" + s.ProficiencyLevel + ")"
		}
		p.text("- " + line)
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, s := range parts {
		if strings.TrimSpace(s) != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, sep)
}
