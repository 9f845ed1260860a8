// Package deviceapi implements the query-string call protocol spoken by
// V-ZUG appliance web servers.
//
// Every request is a GET against one of two endpoints ("ai" for device
// information, "hh" for commands) with a command query parameter and, for the
// generic getCommand, a value parameter:
//
//	http://192.168.0.202/ai?command=getDeviceStatus
//	http://192.168.0.202/hh?command=getCommand&value=ecomXstatXtotal
//
// # Call Shapes
//
// CallRaw returns the body as text and is used for scalar answers such as the
// model description or the machine-type code. CallJSON validates the body,
// turns an {"error":{"code":...}} object into a device error, and retries
// device and transport errors up to three attempts with a fixed two second
// delay.
//
// # Errors
//
// All failures are reported as *Error with one of four kinds:
//   - KindTransport: connection refused, timeout, DNS (code "n/a", retried)
//   - KindMalformed: body is not JSON or lacks expected fields (code "n/a")
//   - KindDevice: the appliance reported an error code (retried)
//   - KindAuth: the request stayed unauthorized (code "n/a")
//
// # Usage Example
//
//	client := deviceapi.NewClient("192.168.0.202", "admin", password)
//	raw, err := client.CallRaw(ctx, deviceapi.CallMachineType)
//	if err != nil {
//	    fmt.Println(deviceapi.TroubleshootingHint(err))
//	}
package deviceapi
