package migrations

import (
	"log"

	"github.com/jmoiron/sqlx"
)

// Run creates the database schema required for the inventory backend.
func Run(db *sqlx.DB) {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'staff',
			created_at TIMESTAMPTZ DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS medicines (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			generic_name TEXT NOT NULL,
			batch_number TEXT NOT NULL,
			quantity BIGINT NOT NULL DEFAULT 0 CHECK (quantity >= 0),
			expiry_date BIGINT NOT NULL,
			manufacturer TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			minimum_stock BIGINT NOT NULL DEFAULT 0,
			unit_price DOUBLE PRECISION NOT NULL DEFAULT 0,
			category TEXT NOT NULL DEFAULT 'Other',
			dosage_form TEXT NOT NULL DEFAULT 'Other',
			strength TEXT NOT NULL DEFAULT '',
			description TEXT,
			created_by INTEGER REFERENCES users(id),
			created_at TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE(name, batch_number)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_medicines_name ON medicines(name);`,
		`CREATE INDEX IF NOT EXISTS idx_medicines_expiry ON medicines(expiry_date);`,
		`CREATE TABLE IF NOT EXISTS stock_adjustments (
			id SERIAL PRIMARY KEY,
			medicine_id INTEGER NOT NULL REFERENCES medicines(id),
			type TEXT NOT NULL,
			quantity BIGINT NOT NULL,
			reason TEXT NOT NULL,
			batch_number TEXT NOT NULL,
			adjusted_by INTEGER NOT NULL REFERENCES users(id),
			adjustment_date BIGINT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_stock_adjustments_medicine ON stock_adjustments(medicine_id);`,
		`CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			status TEXT NOT NULL DEFAULT 'pending',
			requested_by INTEGER NOT NULL REFERENCES users(id),
			approved_by INTEGER REFERENCES users(id),
			delivery_location TEXT NOT NULL,
			request_date BIGINT NOT NULL,
			approval_date BIGINT,
			notes TEXT,
			total_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id SERIAL PRIMARY KEY,
			order_id INTEGER NOT NULL REFERENCES orders(id),
			medicine_id INTEGER NOT NULL REFERENCES medicines(id),
			quantity BIGINT NOT NULL,
			batch_number TEXT NOT NULL DEFAULT '',
			unit_price DOUBLE PRECISION NOT NULL,
			subtotal DOUBLE PRECISION NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS suppliers (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			contact_person TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			categories TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'active',
			created_by INTEGER REFERENCES users(id),
			created_at TIMESTAMPTZ DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_suppliers_status ON suppliers(status);`,
		`CREATE TABLE IF NOT EXISTS drugs (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			sku TEXT NOT NULL,
			batch_number TEXT NOT NULL,
			expiry_date BIGINT NOT NULL,
			manufacturer_id INTEGER NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS shipments (
			id UUID PRIMARY KEY,
			drug_id UUID NOT NULL REFERENCES drugs(id),
			origin TEXT NOT NULL DEFAULT '',
			destination TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'created',
			current_holder_id INTEGER REFERENCES users(id),
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS ledger_entries (
			id SERIAL PRIMARY KEY,
			drug_id UUID NOT NULL REFERENCES drugs(id),
			shipment_id UUID REFERENCES shipments(id),
			user_id INTEGER NOT NULL REFERENCES users(id),
			action TEXT NOT NULL,
			details TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_entries_drug ON ledger_entries(drug_id);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
	}
}
