package postgres

// DDL de la base global del registro de tenants.
const registrySchema = `
CREATE TABLE IF NOT EXISTS tenant_registry (
	organization_id        TEXT PRIMARY KEY,
	organization_name      TEXT NOT NULL,
	store_name             TEXT NOT NULL UNIQUE,
	status                 TEXT NOT NULL DEFAULT 'active',
	store_provision_status TEXT NOT NULL DEFAULT 'provisioning',
	plan                   TEXT NOT NULL DEFAULT 'standard',
	plan_status            TEXT NOT NULL DEFAULT 'active',
	enabled_features       TEXT[] NOT NULL DEFAULT '{}',
	created_at             TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at             TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// DDL del store de un tenant. Se ejecuta completo al provisionar; todas las
// sentencias son idempotentes para tolerar re-provisión tras un fallo parcial.
const tenantSchema = `
CREATE TABLE IF NOT EXISTS candidates (
	id                  TEXT PRIMARY KEY,
	first_name          TEXT NOT NULL,
	last_name           TEXT NOT NULL,
	email               TEXT NOT NULL DEFAULT '',
	phone               TEXT NOT NULL DEFAULT '',
	fingerprint         TEXT NOT NULL DEFAULT '',
	stage               TEXT NOT NULL,
	master_candidate_id TEXT,
	created_at          TIMESTAMPTZ NOT NULL,
	updated_at          TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_candidates_fingerprint ON candidates (fingerprint) WHERE fingerprint <> '';

CREATE TABLE IF NOT EXISTS candidate_applications (
	id           TEXT PRIMARY KEY,
	candidate_id TEXT NOT NULL,
	job_id       TEXT NOT NULL,
	applied_date TIMESTAMPTZ NOT NULL,
	stage        TEXT NOT NULL,
	status       TEXT NOT NULL,
	outcome      TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_applications_candidate ON candidate_applications (candidate_id);

CREATE TABLE IF NOT EXISTS onboardings (
	id           TEXT PRIMARY KEY,
	candidate_id TEXT NOT NULL,
	job_id       TEXT NOT NULL,
	status       TEXT NOT NULL,
	employee_id  TEXT,
	first_name   TEXT NOT NULL,
	last_name    TEXT NOT NULL,
	email        TEXT NOT NULL DEFAULT '',
	phone        TEXT NOT NULL DEFAULT '',
	start_date   TIMESTAMPTZ NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_onboardings_employee ON onboardings (employee_id) WHERE employee_id IS NOT NULL;

CREATE TABLE IF NOT EXISTS employees (
	id             TEXT PRIMARY KEY,
	employee_code  TEXT NOT NULL DEFAULT '',
	first_name     TEXT NOT NULL,
	last_name      TEXT NOT NULL,
	email          TEXT NOT NULL DEFAULT '',
	phone          TEXT NOT NULL DEFAULT '',
	fingerprint    TEXT NOT NULL DEFAULT '',
	role           TEXT NOT NULL DEFAULT 'employee',
	salary_monthly NUMERIC(14,2) NOT NULL DEFAULT 0,
	is_active      BOOLEAN NOT NULL DEFAULT true,
	created_at     TIMESTAMPTZ NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS uq_employees_live_fingerprint
	ON employees (fingerprint) WHERE is_active AND fingerprint <> '';

CREATE TABLE IF NOT EXISTS offboardings (
	id                TEXT PRIMARY KEY,
	employee_id       TEXT NOT NULL,
	reason            TEXT NOT NULL DEFAULT '',
	status            TEXT NOT NULL,
	employee_snapshot JSONB,
	last_working_day  TIMESTAMPTZ NOT NULL,
	closed_at         TIMESTAMPTZ,
	created_at        TIMESTAMPTZ NOT NULL,
	updated_at        TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_offboardings_employee ON offboardings (employee_id);

CREATE TABLE IF NOT EXISTS repair_audits (
	id          TEXT PRIMARY KEY,
	rule        TEXT NOT NULL,
	record_kind TEXT NOT NULL,
	record_id   TEXT NOT NULL,
	before_doc  JSONB,
	after_doc   JSONB,
	anomaly     BOOLEAN NOT NULL DEFAULT false,
	created_at  TIMESTAMPTZ NOT NULL
);
`
