package deviceapi

// Endpoints served by the appliance web server.
const (
	// EndpointDeviceInfo serves status and model description
	EndpointDeviceInfo = "ai"
	// EndpointCommand serves program details, machine type and metered values
	EndpointCommand = "hh"
)

// Query keys of the command/value interface.
const (
	QueryCommand = "command"
	QueryValue   = "value"
)

// Command tokens understood by the appliances.
const (
	CommandGetStatus      = "getDeviceStatus"
	CommandGetModelDesc   = "getModelDescription"
	CommandGetMachineType = "getMachineType"
	CommandGetProgram     = "getProgram"
	CommandGetCommand     = "getCommand"
)

// Call names one request against the appliance.
type Call struct {
	Endpoint string
	Command  string
	Value    string // only for CommandGetCommand
}

// Predefined calls used by the appliance models.
var (
	CallStatus      = Call{Endpoint: EndpointDeviceInfo, Command: CommandGetStatus}
	CallModelDesc   = Call{Endpoint: EndpointDeviceInfo, Command: CommandGetModelDesc}
	CallMachineType = Call{Endpoint: EndpointCommand, Command: CommandGetMachineType}
	CallProgram     = Call{Endpoint: EndpointCommand, Command: CommandGetProgram}
)

// ValueCall builds a generic getCommand call for a metered value token.
func ValueCall(token string) Call {
	return Call{Endpoint: EndpointCommand, Command: CommandGetCommand, Value: token}
}

// Metered-value tokens for CommandGetCommand.
const (
	ValueDryerConsumptionTotal = "TotalXconsumptionXdrumDry"
	ValueDryerConsumptionAvg   = "AverageXperXcycleXdrumDry"
	ValueWasherEcoStatTotal    = "ecomXstatXtotal"
	ValueWasherEcoStatAvg      = "ecomXstatXavarage" // device spelling
)

// Machine-type short codes returned by CommandGetMachineType.
const (
	MachineTypeWashingMachine = "WA"
	MachineTypeDryer          = "WT"
	MachineTypeDishwasher     = "GS"
)
