// Package postgres implements the storage interfaces on top of PostgreSQL.
//
// Expected tables:
//
//	CREATE TABLE "projects" (
//		"id" BIGSERIAL PRIMARY KEY,
//		"type" TEXT NOT NULL,
//		"alias" TEXT NOT NULL UNIQUE,
//		"name" TEXT NOT NULL,
//		"status" TEXT NOT NULL,
//		"updated_at" TIMESTAMPTZ NOT NULL
//	);
//
//	CREATE TABLE "runs" (
//		"id" BIGSERIAL PRIMARY KEY,
//		"project_id" BIGINT NOT NULL REFERENCES "projects" ("id"),
//		"trigger" TEXT NOT NULL,
//		"ref" TEXT NOT NULL,
//		"hash" TEXT NOT NULL,
//		"status" TEXT NOT NULL,
//		"error_msg" TEXT,
//		"created_at" TIMESTAMPTZ NOT NULL,
//		"finished_at" TIMESTAMPTZ
//	);
//
//	CREATE TABLE "stages" (
//		"id" BIGSERIAL PRIMARY KEY,
//		"run_id" BIGINT NOT NULL REFERENCES "runs" ("id"),
//		"name" TEXT NOT NULL,
//		"status" TEXT NOT NULL,
//		"log" TEXT NOT NULL DEFAULT '',
//		"started_at" TIMESTAMPTZ NOT NULL,
//		"finished_at" TIMESTAMPTZ
//	);
package postgres
