// Package shutdown coordinates graceful process termination.
//
// A Handler waits for SIGINT or SIGTERM (or a programmatic Trigger) and then
// runs the registered hooks in reverse order under a deadline:
//
//	h := shutdown.NewHandler(15 * time.Second, log)
//	h.OnShutdown("http", srv.Shutdown)
//	err := h.Wait(ctx)
//
// WithSignals is the lighter variant for commands that only need their
// context cancelled on interrupt.
package shutdown
