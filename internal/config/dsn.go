package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// DatabaseTarget is a resolved connection: the driver name for sqlx and its DSN.
type DatabaseTarget struct {
	Driver string
	DSN    string
	Host   string
	Name   string
	User   string
}

// String is safe for logs; it never includes the password.
func (t DatabaseTarget) String() string {
	return fmt.Sprintf("%s://%s@%s/%s", t.Driver, t.User, t.Host, t.Name)
}

// ResolveDatabase turns the configured settings into a DSN. DATABASE_URL may embed
// credentials (user:pass@host); those are stripped from the address and used
// instead of DB_USER/DB_PASSWORD.
func ResolveDatabase(e DBEnv) (DatabaseTarget, error) {
	driver := normalizeDriver(e.Driver)
	raw := strings.TrimSpace(e.URL)

	if raw == "" {
		return buildTarget(driver, connParts{
			host: e.Host,
			port: e.Port,
			name: e.Name,
			user: e.User,
			pass: e.Password,
		})
	}

	raw = strings.TrimPrefix(raw, "jdbc:")
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		if driver != DriverMySQL {
			return DatabaseTarget{}, fmt.Errorf("database url %q has no scheme", redact(raw))
		}
		return fromMySQLDSN(raw, e)
	}

	driver = normalizeDriver(scheme)
	parts, err := splitURL(rest)
	if err != nil {
		return DatabaseTarget{}, err
	}
	switch {
	case !parts.inline:
		parts.user = e.User
		parts.pass = e.Password
	case parts.pass == "":
		parts.pass = e.Password
	}
	return buildTarget(driver, parts)
}

type connParts struct {
	host   string
	port   string
	name   string
	user   string
	pass   string
	query  string
	inline bool
}

// splitURL parses "user:pass@host:port/db?query". The last '@' before the query
// separates the credentials, so passwords may contain '@' or ':'.
func splitURL(rest string) (connParts, error) {
	var p connParts
	rest, p.query, _ = strings.Cut(rest, "?")

	if at := strings.LastIndex(rest, "@"); at >= 0 {
		userinfo := rest[:at]
		rest = rest[at+1:]
		user, pass, _ := strings.Cut(userinfo, ":")
		var err error
		if p.user, err = url.PathUnescape(user); err != nil {
			return p, fmt.Errorf("database url user: %w", err)
		}
		if p.pass, err = url.PathUnescape(pass); err != nil {
			return p, fmt.Errorf("database url password: %w", err)
		}
		p.inline = p.user != ""
	}

	hostport, name, _ := strings.Cut(rest, "/")
	if hostport == "" {
		return p, fmt.Errorf("database url has no host")
	}
	p.host, p.port = hostport, ""
	if h, port, err := net.SplitHostPort(hostport); err == nil {
		p.host, p.port = h, port
	}
	p.name = strings.TrimSuffix(name, "/")
	return p, nil
}

func buildTarget(driver string, p connParts) (DatabaseTarget, error) {
	switch driver {
	case DriverPostgres:
		return postgresTarget(p)
	case DriverMySQL:
		return mysqlTarget(p)
	default:
		return DatabaseTarget{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func postgresTarget(p connParts) (DatabaseTarget, error) {
	port := p.port
	if port == "" {
		port = "5432"
	}
	q, err := url.ParseQuery(p.query)
	if err != nil {
		return DatabaseTarget{}, fmt.Errorf("database url query: %w", err)
	}
	if q.Get("sslmode") == "" {
		q.Set("sslmode", "disable")
	}

	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(p.host, port),
		Path:     "/" + p.name,
		RawQuery: q.Encode(),
	}
	if p.user != "" {
		if p.pass != "" {
			u.User = url.UserPassword(p.user, p.pass)
		} else {
			u.User = url.User(p.user)
		}
	}
	return DatabaseTarget{
		Driver: DriverPostgres,
		DSN:    u.String(),
		Host:   u.Host,
		Name:   p.name,
		User:   p.user,
	}, nil
}

func mysqlTarget(p connParts) (DatabaseTarget, error) {
	port := p.port
	if port == "" {
		port = "3306"
	}
	cfg := mysqlDefaults(mysql.NewConfig())
	cfg.User = p.user
	cfg.Passwd = p.pass
	cfg.Addr = net.JoinHostPort(p.host, port)
	cfg.DBName = p.name

	if p.query != "" {
		q, err := url.ParseQuery(p.query)
		if err != nil {
			return DatabaseTarget{}, fmt.Errorf("database url query: %w", err)
		}
		for k := range q {
			cfg.Params[k] = q.Get(k)
		}
	}
	return DatabaseTarget{
		Driver: DriverMySQL,
		DSN:    cfg.FormatDSN(),
		Host:   cfg.Addr,
		Name:   cfg.DBName,
		User:   cfg.User,
	}, nil
}

// fromMySQLDSN accepts a native go-sql-driver DSN such as "user:pass@tcp(host:3306)/db".
func fromMySQLDSN(raw string, e DBEnv) (DatabaseTarget, error) {
	cfg, err := mysql.ParseDSN(raw)
	if err != nil {
		return DatabaseTarget{}, fmt.Errorf("parse mysql dsn: %w", err)
	}
	switch {
	case cfg.User == "":
		cfg.User = e.User
		cfg.Passwd = e.Password
	case cfg.Passwd == "":
		cfg.Passwd = e.Password
	}
	cfg = mysqlDefaults(cfg)
	return DatabaseTarget{
		Driver: DriverMySQL,
		DSN:    cfg.FormatDSN(),
		Host:   cfg.Addr,
		Name:   cfg.DBName,
		User:   cfg.User,
	}, nil
}

func mysqlDefaults(cfg *mysql.Config) *mysql.Config {
	cfg.Net = "tcp"
	cfg.ParseTime = true
	cfg.Loc = time.Local
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	if _, ok := cfg.Params["charset"]; !ok {
		cfg.Params["charset"] = "utf8mb4"
	}
	return cfg
}

func normalizeDriver(d string) string {
	switch strings.ToLower(strings.TrimSpace(d)) {
	case "postgres", "postgresql", "pg", "pgx":
		return DriverPostgres
	case "", "mysql", "mariadb":
		return DriverMySQL
	default:
		return strings.ToLower(strings.TrimSpace(d))
	}
}

func redact(raw string) string {
	if at := strings.LastIndex(raw, "@"); at >= 0 {
		return "***@" + raw[at+1:]
	}
	return raw
}
