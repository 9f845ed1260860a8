// Package appliance models V-ZUG appliances on top of the deviceapi call
// protocol.
//
// BasicDevice loads what every appliance reports: serial, name, status line,
// UUID, model description and the machine type. Dishwasher, Dryer and
// WashingMachine embed it and add program details and, for dryers and
// washing machines, consumption readings.
//
// Load methods never return errors. They return true on success and keep the
// failure on the device, available through ErrorCode, ErrorMessage, Err and
// IsAuthProblem:
//
//	dw := appliance.NewDishwasher("192.168.0.202", "", "")
//	if !dw.LoadAllInformation(ctx) {
//	    log.Printf("load failed: %s (%s)", dw.ErrorMessage(), dw.ErrorCode())
//	}
//	fmt.Println(dw.Program().EndTime(time.Now()))
//
// A program load returns false without an error when the appliance is idle.
// Program fields are reset at the start of every program load.
//
// A device is not safe for concurrent use.
package appliance
