package offerletter

import (
	"encoding/json"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gorm.io/datatypes"

	offerlettererrors "go-hrms/internal/offerletter/errors"
)

// FormData is the fixed set of fields a letter can be rendered from. Request
// bodies are decoded straight into it, so unrecognized keys are dropped at
// the JSON layer instead of travelling on as placeholders nothing fills.
type FormData struct {
	CandidateName  string `json:"candidate_name,omitempty"`
	CandidateEmail string `json:"candidate_email,omitempty"`
	Designation    string `json:"designation,omitempty"`
	Department     string `json:"department,omitempty"`
	JoiningDate    string `json:"joining_date,omitempty"`
	BasicSalary    string `json:"basic_salary,omitempty"`
	Allowances     string `json:"allowances,omitempty"`
	NetSalary      string `json:"net_salary,omitempty"`
	CompanyName    string `json:"company_name,omitempty"`
	HRName         string `json:"hr_name,omitempty"`
	Location       string `json:"location,omitempty"`
}

// Merge lays non-empty overlay fields over f and returns the result.
func (f FormData) Merge(overlay FormData) FormData {
	merged := f
	if overlay.CandidateName != "" {
		merged.CandidateName = overlay.CandidateName
	}
	if overlay.CandidateEmail != "" {
		merged.CandidateEmail = overlay.CandidateEmail
	}
	if overlay.Designation != "" {
		merged.Designation = overlay.Designation
	}
	if overlay.Department != "" {
		merged.Department = overlay.Department
	}
	if overlay.JoiningDate != "" {
		merged.JoiningDate = overlay.JoiningDate
	}
	if overlay.BasicSalary != "" {
		merged.BasicSalary = overlay.BasicSalary
	}
	if overlay.Allowances != "" {
		merged.Allowances = overlay.Allowances
	}
	if overlay.NetSalary != "" {
		merged.NetSalary = overlay.NetSalary
	}
	if overlay.CompanyName != "" {
		merged.CompanyName = overlay.CompanyName
	}
	if overlay.HRName != "" {
		merged.HRName = overlay.HRName
	}
	if overlay.Location != "" {
		merged.Location = overlay.Location
	}
	return merged
}

// ToMap exposes the populated fields under their placeholder names.
func (f FormData) ToMap() map[string]string {
	m := map[string]string{}
	put := func(key, value string) {
		if value != "" {
			m[key] = value
		}
	}
	put("candidate_name", f.CandidateName)
	put("candidate_email", f.CandidateEmail)
	put("designation", f.Designation)
	put("department", f.Department)
	put("joining_date", f.JoiningDate)
	put("basic_salary", f.BasicSalary)
	put("allowances", f.Allowances)
	put("net_salary", f.NetSalary)
	put("company_name", f.CompanyName)
	put("hr_name", f.HRName)
	put("location", f.Location)
	return m
}

var amountPrinter = message.NewPrinter(language.English)

// DeriveNetSalary recomputes net_salary = basic_salary + allowances and
// formats it with the currency symbol and thousands grouping ("₹35,000").
// A missing component counts as zero.
func (f FormData) DeriveNetSalary(currencySymbol string) (FormData, error) {
	basic, err := parseAmount(f.BasicSalary, currencySymbol)
	if err != nil {
		return f, offerlettererrors.ErrInvalidSalaryAmount
	}
	allowances, err := parseAmount(f.Allowances, currencySymbol)
	if err != nil {
		return f, offerlettererrors.ErrInvalidSalaryAmount
	}

	derived := f
	derived.NetSalary = amountPrinter.Sprintf("%s%d", currencySymbol, basic+allowances)
	return derived, nil
}

func parseAmount(v, currencySymbol string) (int64, error) {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, currencySymbol)
	v = strings.ReplaceAll(v, ",", "")
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

func (f FormData) ToJSON() (datatypes.JSON, error) {
	raw, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func FormDataFromJSON(raw datatypes.JSON) (FormData, error) {
	var f FormData
	if len(raw) == 0 {
		return f, nil
	}
	err := json.Unmarshal(raw, &f)
	return f, err
}
