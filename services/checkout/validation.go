package checkout

import (
    "fmt"
    "regexp"
    "strconv"
    "strings"
    "time"
)

// FieldErrors maps form field names to their validation messages. An empty
// map means the checked fields all passed.
type FieldErrors map[string][]string

func (e FieldErrors) add(field, message string) {
    e[field] = append(e[field], message)
}

func (e FieldErrors) Empty() bool {
    return len(e) == 0
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Provinces is the fixed city/province list the shipping form selects from.
var Provinces = []string{
    "An Giang", "Binh Duong", "Binh Thuan", "Can Tho", "Da Nang",
    "Dak Lak", "Dong Nai", "Ha Noi", "Hai Phong", "Khanh Hoa",
    "Lam Dong", "Long An", "Nghe An", "Quang Ninh", "Thanh Hoa",
    "Thua Thien Hue", "Tien Giang", "TP Ho Chi Minh", "Vung Tau",
}

// Validator checks checkout form fields. The clock is injected so expiry
// checks are deterministic in tests.
type Validator struct {
    now func() time.Time
}

func NewValidator(now func() time.Time) *Validator {
    if now == nil {
        now = time.Now
    }
    return &Validator{now: now}
}

func (v *Validator) ValidateName(name string) error {
    if len(strings.TrimSpace(name)) < 2 {
        return fmt.Errorf("name must be at least 2 characters")
    }
    return nil
}

func (v *Validator) ValidateEmail(email string) error {
    if !emailPattern.MatchString(strings.TrimSpace(email)) {
        return fmt.Errorf("email address is not valid")
    }
    return nil
}

func (v *Validator) ValidatePhone(phone string) error {
    stripped := strings.Join(strings.Fields(phone), "")
    if len(stripped) < 10 || len(stripped) > 11 {
        return fmt.Errorf("phone number must have 10 or 11 digits")
    }
    for _, r := range stripped {
        if r < '0' || r > '9' {
            return fmt.Errorf("phone number must contain only digits")
        }
    }
    return nil
}

func (v *Validator) ValidateAddress(address string) error {
    if len(strings.TrimSpace(address)) < 10 {
        return fmt.Errorf("address must be at least 10 characters")
    }
    return nil
}

func (v *Validator) ValidateCity(city string) error {
    trimmed := strings.TrimSpace(city)
    if trimmed == "" {
        return fmt.Errorf("city is required")
    }
    for _, province := range Provinces {
        if strings.EqualFold(province, trimmed) {
            return nil
        }
    }
    return fmt.Errorf("city must be one of the listed provinces")
}

// ValidateCardNumber requires at least 16 digits after stripping spaces and
// a passing Luhn checksum.
func (v *Validator) ValidateCardNumber(number string) error {
    digits := stripNonDigits(number)
    if len(digits) < 16 {
        return fmt.Errorf("card number must have at least 16 digits")
    }
    if !luhnValid(digits) {
        return fmt.Errorf("card number is not valid")
    }
    return nil
}

// ValidateExpiry accepts MM/YY, month 1-12, not strictly before the current
// month/year.
func (v *Validator) ValidateExpiry(expiry string) error {
    parts := strings.Split(strings.TrimSpace(expiry), "/")
    if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
        return fmt.Errorf("expiry must be in MM/YY format")
    }

    month, err := strconv.Atoi(parts[0])
    if err != nil || month < 1 || month > 12 {
        return fmt.Errorf("expiry month must be between 01 and 12")
    }
    year, err := strconv.Atoi(parts[1])
    if err != nil {
        return fmt.Errorf("expiry must be in MM/YY format")
    }
    year += 2000

    now := v.now()
    if year < now.Year() || (year == now.Year() && month < int(now.Month())) {
        return fmt.Errorf("card has expired")
    }
    return nil
}

// ValidateCVV expects 3 digits, or 4 for American-Express-style numbers
// (prefix 34 or 37).
func (v *Validator) ValidateCVV(cvv, cardNumber string) error {
    digits := stripNonDigits(cvv)
    expected := 3
    if isAmex(stripNonDigits(cardNumber)) {
        expected = 4
    }
    if len(digits) != expected {
        return fmt.Errorf("security code must have %d digits", expected)
    }
    return nil
}

func isAmex(digits string) bool {
    return strings.HasPrefix(digits, "34") || strings.HasPrefix(digits, "37")
}

// luhnValid doubles every second digit from the right, subtracts 9 from
// results above 9, and checks the digit sum mod 10.
func luhnValid(digits string) bool {
    sum := 0
    double := false
    for i := len(digits) - 1; i >= 0; i-- {
        d := int(digits[i] - '0')
        if double {
            d *= 2
            if d > 9 {
                d -= 9
            }
        }
        sum += d
        double = !double
    }
    return sum%10 == 0
}

func stripNonDigits(value string) string {
    var b strings.Builder
    for _, r := range value {
        if r >= '0' && r <= '9' {
            b.WriteRune(r)
        }
    }
    return b.String()
}
