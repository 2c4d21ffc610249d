/*
Package observability turns dialog lifecycle hooks into logs and Prometheus metrics.

Everything here is fed from domain.LifecycleHooks, so the dialog runtime never
imports a metrics library directly.
*/
package observability
