package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/airwave-net/airwave/pkg/model"
)

// PostgresStore is a PostgreSQL-backed implementation of the Store interface.
// Identifiers are BIGSERIAL columns, so id assignment is owned by the
// database and safe under concurrent writers.
type PostgresStore struct {
	db         *sql.DB
	vlans      *pgVLANStore
	interfaces *pgInterfaceStore
	lans       *pgWirelessLANStore
	links      *pgWirelessLinkStore
}

// NewPostgresStore opens a connection pool against dsn and verifies it with a
// ping. The caller must call Close when finished.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return &PostgresStore{
		db:         db,
		vlans:      &pgVLANStore{db: db},
		interfaces: &pgInterfaceStore{db: db},
		lans:       &pgWirelessLANStore{db: db},
		links:      &pgWirelessLinkStore{db: db},
	}, nil
}

func (s *PostgresStore) VLANs() VLANStore                 { return s.vlans }
func (s *PostgresStore) Interfaces() InterfaceStore       { return s.interfaces }
func (s *PostgresStore) WirelessLANs() WirelessLANStore   { return s.lans }
func (s *PostgresStore) WirelessLinks() WirelessLinkStore { return s.links }

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Migrate creates the Airwave tables if they do not exist.
func (s *PostgresStore) Migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS vlans (
			id   BIGSERIAL PRIMARY KEY,
			vid  INTEGER NOT NULL,
			name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS interfaces (
			id     BIGSERIAL PRIMARY KEY,
			device TEXT NOT NULL,
			name   TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS wireless_lans (
			id          BIGSERIAL PRIMARY KEY,
			ssid        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			vlan_id     BIGINT REFERENCES vlans(id)
		)`,
		`CREATE TABLE IF NOT EXISTS wireless_links (
			id             BIGSERIAL PRIMARY KEY,
			interface_a_id BIGINT NOT NULL REFERENCES interfaces(id),
			interface_b_id BIGINT NOT NULL REFERENCES interfaces(id),
			ssid           TEXT NOT NULL DEFAULT '',
			description    TEXT NOT NULL DEFAULT ''
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// pgVLANStore
// ---------------------------------------------------------------------------

type pgVLANStore struct {
	db *sql.DB
}

func (s *pgVLANStore) List() ([]model.VLAN, error) {
	rows, err := s.db.Query(`SELECT id, vid, name FROM vlans ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list vlans: %w", err)
	}
	defer rows.Close()
	var out []model.VLAN
	for rows.Next() {
		var v model.VLAN
		if err := rows.Scan(&v.ID, &v.VID, &v.Name); err != nil {
			return nil, fmt.Errorf("scan vlan: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *pgVLANStore) Get(id int64) (*model.VLAN, error) {
	var v model.VLAN
	err := s.db.QueryRow(`SELECT id, vid, name FROM vlans WHERE id = $1`, id).
		Scan(&v.ID, &v.VID, &v.Name)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("vlan %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get vlan %d: %w", id, err)
	}
	return &v, nil
}

func (s *pgVLANStore) Create(v *model.VLAN) error {
	err := s.db.QueryRow(`INSERT INTO vlans (vid, name) VALUES ($1, $2) RETURNING id`,
		v.VID, v.Name).Scan(&v.ID)
	if err != nil {
		return fmt.Errorf("create vlan: %w", err)
	}
	return nil
}

func (s *pgVLANStore) Update(v *model.VLAN) error {
	res, err := s.db.Exec(`UPDATE vlans SET vid = $2, name = $3 WHERE id = $1`,
		v.ID, v.VID, v.Name)
	if err != nil {
		return fmt.Errorf("update vlan %d: %w", v.ID, err)
	}
	return checkAffected(res, "vlan", v.ID)
}

func (s *pgVLANStore) Delete(id int64) error {
	res, err := s.db.Exec(`DELETE FROM vlans WHERE id = $1`, id)
	if err != nil {
		return deleteErr("vlan", id, err)
	}
	return checkAffected(res, "vlan", id)
}

// checkAffected maps a zero-row UPDATE/DELETE result to ErrNotFound.
func checkAffected(res sql.Result, kind string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %d: %w", kind, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	return nil
}

// deleteErr classifies a DELETE failure. A foreign key violation means the
// row is still referenced and maps to ErrConflict; anything else (a lost
// connection, a bad statement) is passed through unchanged.
func deleteErr(kind string, id int64, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" {
		return fmt.Errorf("delete %s %d: %w", kind, id, ErrConflict)
	}
	return fmt.Errorf("delete %s %d: %w", kind, id, err)
}

// ---------------------------------------------------------------------------
// pgInterfaceStore
// ---------------------------------------------------------------------------

type pgInterfaceStore struct {
	db *sql.DB
}

func (s *pgInterfaceStore) List() ([]model.Interface, error) {
	rows, err := s.db.Query(`SELECT id, device, name FROM interfaces ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list interfaces: %w", err)
	}
	defer rows.Close()
	var out []model.Interface
	for rows.Next() {
		var i model.Interface
		if err := rows.Scan(&i.ID, &i.Device, &i.Name); err != nil {
			return nil, fmt.Errorf("scan interface: %w", err)
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (s *pgInterfaceStore) Get(id int64) (*model.Interface, error) {
	var i model.Interface
	err := s.db.QueryRow(`SELECT id, device, name FROM interfaces WHERE id = $1`, id).
		Scan(&i.ID, &i.Device, &i.Name)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("interface %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get interface %d: %w", id, err)
	}
	return &i, nil
}

func (s *pgInterfaceStore) Create(i *model.Interface) error {
	err := s.db.QueryRow(`INSERT INTO interfaces (device, name) VALUES ($1, $2) RETURNING id`,
		i.Device, i.Name).Scan(&i.ID)
	if err != nil {
		return fmt.Errorf("create interface: %w", err)
	}
	return nil
}

func (s *pgInterfaceStore) Update(i *model.Interface) error {
	res, err := s.db.Exec(`UPDATE interfaces SET device = $2, name = $3 WHERE id = $1`,
		i.ID, i.Device, i.Name)
	if err != nil {
		return fmt.Errorf("update interface %d: %w", i.ID, err)
	}
	return checkAffected(res, "interface", i.ID)
}

func (s *pgInterfaceStore) Delete(id int64) error {
	res, err := s.db.Exec(`DELETE FROM interfaces WHERE id = $1`, id)
	if err != nil {
		return deleteErr("interface", id, err)
	}
	return checkAffected(res, "interface", id)
}

// ---------------------------------------------------------------------------
// pgWirelessLANStore
// ---------------------------------------------------------------------------

type pgWirelessLANStore struct {
	db *sql.DB
}

func (s *pgWirelessLANStore) List() ([]model.WirelessLAN, error) {
	rows, err := s.db.Query(`SELECT id, ssid, description, vlan_id FROM wireless_lans ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list wireless lans: %w", err)
	}
	defer rows.Close()
	var out []model.WirelessLAN
	for rows.Next() {
		var lan model.WirelessLAN
		var vlanID sql.NullInt64
		if err := rows.Scan(&lan.ID, &lan.SSID, &lan.Description, &vlanID); err != nil {
			return nil, fmt.Errorf("scan wireless lan: %w", err)
		}
		if vlanID.Valid {
			lan.VLANID = &vlanID.Int64
		}
		out = append(out, lan)
	}
	return out, rows.Err()
}

func (s *pgWirelessLANStore) Get(id int64) (*model.WirelessLAN, error) {
	var lan model.WirelessLAN
	var vlanID sql.NullInt64
	err := s.db.QueryRow(`SELECT id, ssid, description, vlan_id FROM wireless_lans WHERE id = $1`, id).
		Scan(&lan.ID, &lan.SSID, &lan.Description, &vlanID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("wireless lan %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get wireless lan %d: %w", id, err)
	}
	if vlanID.Valid {
		lan.VLANID = &vlanID.Int64
	}
	return &lan, nil
}

func (s *pgWirelessLANStore) Create(lan *model.WirelessLAN) error {
	err := s.db.QueryRow(
		`INSERT INTO wireless_lans (ssid, description, vlan_id) VALUES ($1, $2, $3) RETURNING id`,
		lan.SSID, lan.Description, nullableID(lan.VLANID)).Scan(&lan.ID)
	if err != nil {
		return fmt.Errorf("create wireless lan: %w", err)
	}
	return nil
}

func (s *pgWirelessLANStore) Update(lan *model.WirelessLAN) error {
	res, err := s.db.Exec(
		`UPDATE wireless_lans SET ssid = $2, description = $3, vlan_id = $4 WHERE id = $1`,
		lan.ID, lan.SSID, lan.Description, nullableID(lan.VLANID))
	if err != nil {
		return fmt.Errorf("update wireless lan %d: %w", lan.ID, err)
	}
	return checkAffected(res, "wireless lan", lan.ID)
}

func (s *pgWirelessLANStore) Delete(id int64) error {
	res, err := s.db.Exec(`DELETE FROM wireless_lans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete wireless lan %d: %w", id, err)
	}
	return checkAffected(res, "wireless lan", id)
}

// nullableID converts an optional relation id to a sql.NullInt64.
func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

// ---------------------------------------------------------------------------
// pgWirelessLinkStore
// ---------------------------------------------------------------------------

type pgWirelessLinkStore struct {
	db *sql.DB
}

func (s *pgWirelessLinkStore) List() ([]model.WirelessLink, error) {
	rows, err := s.db.Query(
		`SELECT id, interface_a_id, interface_b_id, ssid, description FROM wireless_links ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list wireless links: %w", err)
	}
	defer rows.Close()
	var out []model.WirelessLink
	for rows.Next() {
		var l model.WirelessLink
		if err := rows.Scan(&l.ID, &l.InterfaceAID, &l.InterfaceBID, &l.SSID, &l.Description); err != nil {
			return nil, fmt.Errorf("scan wireless link: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *pgWirelessLinkStore) Get(id int64) (*model.WirelessLink, error) {
	var l model.WirelessLink
	err := s.db.QueryRow(
		`SELECT id, interface_a_id, interface_b_id, ssid, description FROM wireless_links WHERE id = $1`, id).
		Scan(&l.ID, &l.InterfaceAID, &l.InterfaceBID, &l.SSID, &l.Description)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("wireless link %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get wireless link %d: %w", id, err)
	}
	return &l, nil
}

func (s *pgWirelessLinkStore) Create(link *model.WirelessLink) error {
	err := s.db.QueryRow(
		`INSERT INTO wireless_links (interface_a_id, interface_b_id, ssid, description)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		link.InterfaceAID, link.InterfaceBID, link.SSID, link.Description).Scan(&link.ID)
	if err != nil {
		return fmt.Errorf("create wireless link: %w", err)
	}
	return nil
}

func (s *pgWirelessLinkStore) Update(link *model.WirelessLink) error {
	res, err := s.db.Exec(
		`UPDATE wireless_links SET interface_a_id = $2, interface_b_id = $3, ssid = $4, description = $5
		 WHERE id = $1`,
		link.ID, link.InterfaceAID, link.InterfaceBID, link.SSID, link.Description)
	if err != nil {
		return fmt.Errorf("update wireless link %d: %w", link.ID, err)
	}
	return checkAffected(res, "wireless link", link.ID)
}

func (s *pgWirelessLinkStore) Delete(id int64) error {
	res, err := s.db.Exec(`DELETE FROM wireless_links WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete wireless link %d: %w", id, err)
	}
	return checkAffected(res, "wireless link", id)
}
