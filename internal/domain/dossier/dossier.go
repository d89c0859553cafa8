// Package dossier renders an employee's admission record and event
// history as a printable PDF.
package dossier

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"gourmetto/internal/domain/hr"
)

type field struct {
	label string
	value string
}

func Render(w io.Writer, emp hr.Employee, events []hr.Event) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("Ficha de Registro de Empregado"))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, tr(emp.Name))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, tr("Situação: "+emp.Status))
	pdf.Ln(10)

	section(pdf, tr, "Dados pessoais", []field{
		{"Código", deref(emp.Code)},
		{"CPF", deref(emp.CPF)},
		{"RG", join(deref(emp.RG), deref(emp.RGIssuer))},
		{"Nascimento", date(emp.BirthDate)},
		{"Pai", deref(emp.FatherName)},
		{"Mãe", deref(emp.MotherName)},
		{"Estado civil", deref(emp.MaritalStatus)},
		{"Naturalidade", deref(emp.Naturalness)},
		{"Endereço", join(deref(emp.Address), deref(emp.Neighborhood))},
		{"Cidade", join(deref(emp.City), deref(emp.State))},
		{"Telefone", deref(emp.Phone)},
	})

	bank := ""
	if emp.BankInfo != nil {
		bank = fmt.Sprintf("%s ag. %s c/c %s-%s", emp.BankInfo.Bank, emp.BankInfo.Agency, emp.BankInfo.Account, emp.BankInfo.Digit)
	}
	fgts := ""
	if emp.FGTSOptant != nil {
		fgts = "Não"
		if *emp.FGTSOptant {
			fgts = "Sim"
		}
	}
	salary := any(nil)
	if emp.Salary != nil {
		salary = *emp.Salary
	}
	section(pdf, tr, "Contrato", []field{
		{"Admissão", date(emp.AdmissionDate)},
		{"Cargo", deref(emp.Role)},
		{"CBO", deref(emp.CBO)},
		{"Salário", hr.FormatBRL(salary)},
		{"Escala", deref(emp.Scale)},
		{"Pagamento", join(deref(emp.PaymentMode), deref(emp.PaymentPeriod))},
		{"CTPS", deref(emp.CTPS)},
		{"PIS", deref(emp.PIS)},
		{"Optante FGTS", fgts},
		{"Banco", bank},
		{"PIX", deref(emp.PixKey)},
	})

	if len(emp.Relatives) > 0 {
		rows := make([]field, 0, len(emp.Relatives))
		for _, rel := range emp.Relatives {
			rows = append(rows, field{rel.Parentage, rel.Name + " (" + hr.FormatDate(rel.BirthDate) + ")"})
		}
		section(pdf, tr, "Dependentes", rows)
	}

	history := hr.EventsFor(events, emp.ID)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, tr("Histórico ("+strconv.Itoa(len(history))+")"))
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 10)
	for _, ev := range history {
		line := hr.FormatDate(ev.Date) + "  " + ev.Type
		if ev.Severity != nil {
			line += " [" + *ev.Severity + "]"
		}
		if ev.Description != "" {
			line += ": " + ev.Description
		}
		pdf.MultiCell(0, 5, tr(line), "", "L", false)
	}

	return pdf.Output(w)
}

func section(pdf *gofpdf.Fpdf, tr func(string) string, title string, fields []field) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, tr(title))
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 10)
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		pdf.SetFont("Helvetica", "B", 10)
		pdf.Cell(40, 6, tr(f.label+":"))
		pdf.SetFont("Helvetica", "", 10)
		pdf.Cell(0, 6, tr(f.value))
		pdf.Ln(6)
	}
	pdf.Ln(4)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func date(s *string) string {
	if s == nil {
		return ""
	}
	return hr.FormatDate(*s)
}

func join(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + " - " + b
}
