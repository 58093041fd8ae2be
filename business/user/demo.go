package user

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"groceryMarket/domain"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// DemoAccount bypasses the auth provider entirely. Demo sessions are carried
// by cookies, never by a token.
type DemoAccount struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
	FullName string `yaml:"full_name"`
}

// UserID is the synthetic identifier demo sessions act under. It is stable per
// email so demo carts and points survive between logins.
func (a DemoAccount) UserID() string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("demo:"+strings.ToLower(a.Email))).String()
}

func (a DemoAccount) displayName() string {
	if a.FullName != "" {
		return a.FullName
	}
	return nameFromEmail(a.Email)
}

func DefaultDemoAccounts() []DemoAccount {
	return []DemoAccount{
		{Email: "customer@demo.com", Password: "demo123", Role: domain.RoleCustomer, FullName: "Demo Customer"},
		{Email: "vendor@demo.com", Password: "demo123", Role: domain.RoleVendor, FullName: "Demo Vendor"},
		{Email: "rider@demo.com", Password: "demo123", Role: domain.RoleRider, FullName: "Demo Rider"},
		{Email: "admin@demo.com", Password: "demo123", Role: domain.RoleAdmin, FullName: "Demo Admin"},
	}
}

type demoFile struct {
	Accounts []DemoAccount `yaml:"accounts"`
}

// LoadDemoAccounts reads a YAML file of the form
//
//	accounts:
//	  - email: vendor@demo.com
//	    password: demo123
//	    role: vendor
func LoadDemoAccounts(path string) ([]DemoAccount, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read demo accounts: %w", err)
	}

	var f demoFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse demo accounts: %w", err)
	}

	for i, acc := range f.Accounts {
		if acc.Email == "" || acc.Password == "" {
			return nil, fmt.Errorf("demo account %d: email and password are required", i)
		}
		if !domain.ValidRole(acc.Role) {
			return nil, fmt.Errorf("demo account %s: unknown role %q", acc.Email, acc.Role)
		}
	}

	return f.Accounts, nil
}

type DemoDirectory struct {
	byEmail map[string]DemoAccount
}

func NewDemoDirectory(accounts []DemoAccount) *DemoDirectory {
	d := &DemoDirectory{byEmail: make(map[string]DemoAccount, len(accounts))}
	for _, acc := range accounts {
		d.byEmail[strings.ToLower(acc.Email)] = acc
	}
	return d
}

// Match reports the demo account for an exact email and password pair.
func (d *DemoDirectory) Match(email, password string) (DemoAccount, bool) {
	if d == nil {
		return DemoAccount{}, false
	}
	acc, ok := d.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok || acc.Password != password {
		return DemoAccount{}, false
	}
	return acc, true
}

func (d *DemoDirectory) Lookup(email string) (DemoAccount, bool) {
	if d == nil {
		return DemoAccount{}, false
	}
	acc, ok := d.byEmail[strings.ToLower(email)]
	return acc, ok
}

// Accounts lists the demo accounts ordered by email.
func (d *DemoDirectory) Accounts() []DemoAccount {
	if d == nil {
		return nil
	}
	out := make([]DemoAccount, 0, len(d.byEmail))
	for _, acc := range d.byEmail {
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}

// VerifyDemo checks a demo cookie pair and returns the demo session's user ID.
func (d *DemoDirectory) VerifyDemo(email, role string) (string, bool) {
	acc, ok := d.Lookup(email)
	if !ok || acc.Role != role {
		return "", false
	}
	return acc.UserID(), true
}
