package main

// Constraint names are spelled out so the stores can recognise unique
// violations by name.
var upStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,

	`CREATE TABLE IF NOT EXISTS registrations (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email TEXT NOT NULL,
		full_name TEXT NOT NULL,
		gender TEXT NOT NULL,
		phone_number TEXT NOT NULL,
		department TEXT NOT NULL,
		batch TEXT NOT NULL,
		year_of_study TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT registrations_email_key UNIQUE (email),
		CONSTRAINT registrations_gender_check CHECK (gender IN ('male', 'female', 'other'))
	)`,

	`CREATE TABLE IF NOT EXISTS teams (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		team_code VARCHAR(6) NOT NULL,
		team_name TEXT NOT NULL,
		leader_email TEXT NOT NULL,
		leader_name TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'open',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT teams_team_code_key UNIQUE (team_code),
		CONSTRAINT teams_status_check CHECK (status IN ('open', 'closed'))
	)`,

	`CREATE TABLE IF NOT EXISTS team_members (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		team_id UUID NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		member_email TEXT NOT NULL,
		member_name TEXT NOT NULL,
		is_leader BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT team_members_team_id_member_email_key UNIQUE (team_id, member_email)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_registrations_created_at ON registrations(created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_teams_status_created_at ON teams(status, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_team_members_team_id ON team_members(team_id)`,

	`CREATE OR REPLACE FUNCTION generate_team_code() RETURNS TEXT AS $$
	DECLARE
		chars TEXT := 'ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789';
		code TEXT;
	BEGIN
		LOOP
			code := '';
			FOR i IN 1..6 LOOP
				code := code || substr(chars, floor(random() * length(chars))::int + 1, 1);
			END LOOP;
			EXIT WHEN NOT EXISTS (SELECT 1 FROM teams WHERE team_code = code);
		END LOOP;
		RETURN code;
	END;
	$$ LANGUAGE plpgsql VOLATILE`,
}

var dropStatements = []string{
	`DROP FUNCTION IF EXISTS generate_team_code()`,
	`DROP TABLE IF EXISTS team_members CASCADE`,
	`DROP TABLE IF EXISTS teams CASCADE`,
	`DROP TABLE IF EXISTS registrations CASCADE`,
}

// seedStatement inserts one open and one closed team for local testing
const seedStatement = `
	WITH seeded AS (
		INSERT INTO teams (team_code, team_name, leader_email, leader_name, status) VALUES
			('DEMO01', 'Byte Busters', 'leader1@example.com', 'Asha Nair', 'open'),
			('DEMO02', 'Closed Circuit', 'leader2@example.com', 'Ravi Menon', 'closed')
		ON CONFLICT (team_code) DO UPDATE SET
			team_name = EXCLUDED.team_name,
			status = EXCLUDED.status
		RETURNING id, leader_email, leader_name
	)
	INSERT INTO team_members (team_id, member_email, member_name, is_leader)
	SELECT id, leader_email, leader_name, true FROM seeded
	ON CONFLICT ON CONSTRAINT team_members_team_id_member_email_key DO NOTHING
`
