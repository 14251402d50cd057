package config

import (
	"encoding/json"
	"os"
)

// Company is the persisted company profile consumed by the PDF renderer.
// The JSON keys match the company.json files existing installations carry.
type Company struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	Contact   string `json:"contact"`
	Footer    string `json:"footer"`
	Signature string `json:"signature"`
	Logo      string `json:"logo"`
	Watermark string `json:"watermark"`
}

func DefaultCompany() Company {
	return Company{
		Name:      "My Company",
		Address:   "123 Business Road, City",
		Contact:   "Phone: +92-XXXXXXXXX | Email: info@company.com",
		Footer:    "Thank you for your business!",
		Signature: "Authorized Signature",
		Logo:      "",
		Watermark: "",
	}
}

// LoadCompany reads the company profile from CompanyFile. A missing or
// unreadable file yields the defaults; the profile is decorative input and
// must never block an operation.
func LoadCompany() Company {
	raw, err := os.ReadFile(CompanyFile())
	if err != nil {
		return DefaultCompany()
	}
	var company Company
	if err := json.Unmarshal(raw, &company); err != nil {
		return DefaultCompany()
	}
	return company
}

func SaveCompany(company Company) error {
	raw, err := json.MarshalIndent(company, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(CompanyFile(), raw, 0o644)
}
