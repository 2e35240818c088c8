package models

// Indian GST state codes. The two-digit code on a party record is always
// derived from the state name through this table, never hand-entered.
var StateCodeMap = map[string]string{
	"Jammu and Kashmir": "01",
	"Himachal Pradesh":  "02",
	"Punjab":            "03",
	"Chandigarh":        "04",
	"Uttarakhand":       "05",
	"Haryana":           "06",
	"Delhi":             "07",
	"Rajasthan":         "08",
	"Uttar Pradesh":     "09",
	"Bihar":             "10",
	"Sikkim":            "11",
	"Arunachal Pradesh": "12",
	"Nagaland":          "13",
	"Manipur":           "14",
	"Mizoram":           "15",
	"Tripura":           "16",
	"Meghalaya":         "17",
	"Assam":             "18",
	"West Bengal":       "19",
	"Jharkhand":         "20",
	"Odisha":            "21",
	"Chhattisgarh":      "22",
	"Madhya Pradesh":    "23",
	"Gujarat":           "24",
	"Maharashtra":       "27",
	"Andhra Pradesh":    "37",
	"Karnataka":         "29",
	"Goa":               "30",
	"Kerala":            "32",
	"Tamil Nadu":        "33",
	"Puducherry":        "34",
	"Telangana":         "36",
	"Ladakh":            "38",
}

// DefaultStateCode is used when neither the invoice nor its location can
// resolve a place of supply (company home state: Karnataka).
const DefaultStateCode = "29"

// StateCode resolves a state name to its two-digit GST code. Unknown names
// (including "Other") resolve to an empty code.
func StateCode(state string) string {
	return StateCodeMap[state]
}
