package domain

// ClinicHours opening hours per weekday as spoken to callers
type ClinicHours struct {
	Monday    string `json:"monday"`
	Tuesday   string `json:"tuesday"`
	Wednesday string `json:"wednesday"`
	Thursday  string `json:"thursday"`
	Friday    string `json:"friday"`
	Saturday  string `json:"saturday"`
	Sunday    string `json:"sunday"`
}

// ClinicPricing typical treatment prices
type ClinicPricing struct {
	Consultation string `json:"consultation"`
	Braces       string `json:"braces"`
	Invisalign   string `json:"invisalign"`
	Retainers    string `json:"retainers"`
}

// ClinicInfo public clinic profile
type ClinicInfo struct {
	Name       string        `json:"name"`
	Phone      string        `json:"phone"`
	Email      string        `json:"email"`
	Address    string        `json:"address"`
	Hours      ClinicHours   `json:"hours"`
	Pricing    ClinicPricing `json:"pricing"`
	StaffPhone string        `json:"staffPhone"`
	StaffEmail string        `json:"staffEmail"`
}
