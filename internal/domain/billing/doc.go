// Package billing holds the condominium ledger: the expense catalog,
// billable units, the fees issued against them and the payments that
// settle those fees.
//
// A Fee is unique per (unit, expense type, period). Its status is
// derived from the amount owed and the sum of its payments and only
// ever moves toward PAID.
package billing
