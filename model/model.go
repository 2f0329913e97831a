package model

// 计算请求，未设置的字段由配置文件中的默认值补全
type SimulationRequest struct {
	Name               string       `json:"name"`
	Method             string       `json:"method"` // explicit or gauss_seidel
	Nodes              int          `json:"nodes"`
	Dx                 float64      `json:"dx"`       // m
	Dt                 float64      `json:"dt"`       // s
	Duration           float64      `json:"duration"` // s
	InitialTemperature *float64     `json:"initial_temperature,omitempty"`
	FloorTemperature   *float64     `json:"floor_temperature,omitempty"`
	Tolerance          float64      `json:"tolerance"`
	MaxIterations      int          `json:"max_iterations"`
	Sweep              string       `json:"sweep"` // in_place or snapshot
	Material           MaterialSpec `json:"material"`
	Exposed            BoundarySpec `json:"exposed"`
	Unexposed          BoundarySpec `json:"unexposed"`
	// 响应中每隔多少个时间步输出一帧，0 表示全部输出
	OutputEvery int `json:"output_every"`
}

// 物性参数，优先级: 物性表 > 常数物性 > 钢种
// 都没有给出时按碳钢计算
type MaterialSpec struct {
	Grade               string          `json:"grade"` // carbon, stainless
	ThermalConductivity float64         `json:"thermal_conductivity"`
	Density             float64         `json:"density"`
	SpecificHeat        float64         `json:"specific_heat"`
	Table               []PropertyPoint `json:"table,omitempty"`
}

// 物性表中的一行
type PropertyPoint struct {
	Temperature         float64 `json:"temperature" csv:"temperature"`
	ThermalConductivity float64 `json:"thermal_conductivity" csv:"thermal_conductivity"`
	Density             float64 `json:"density" csv:"density"`
	SpecificHeat        float64 `json:"specific_heat" csv:"specific_heat"`
}

// 边界条件
type BoundarySpec struct {
	Curve      CurveSpec `json:"curve"`
	Convection *float64  `json:"convection,omitempty"` // W/m2K
	Emissivity *float64  `json:"emissivity,omitempty"`
}

// 气体温度曲线
type CurveSpec struct {
	Kind        string       `json:"kind"` // constant, ramp, iso834, external, hydrocarbon, parametric, table
	Temperature float64      `json:"temperature"`
	Ambient     float64      `json:"ambient"`
	RiseTime    float64      `json:"rise_time"`
	Points      []CurvePoint `json:"points,omitempty"`
	Parametric  *Compartment `json:"parametric,omitempty"`
}

type CurvePoint struct {
	Time        float64 `json:"time" csv:"time"`
	Temperature float64 `json:"temperature" csv:"temperature"`
}

// 参数化火灾曲线的隔间参数
type Compartment struct {
	Opening         float64 `json:"opening"`           // O, m^1/2
	ThermalInertia  float64 `json:"thermal_inertia"`   // b, J/m2s^1/2K
	FireLoadDensity float64 `json:"fire_load_density"` // q_t,d, MJ/m2
	FireGrowthLimit float64 `json:"fire_growth_limit"` // t_lim, h
}

// 一个时间步的温度场
type Frame struct {
	Step  int       `json:"step"`
	Time  float64   `json:"time"`
	Field []float64 `json:"field"`
}

type SimulationResponse struct {
	Name   string  `json:"name"`
	Method string  `json:"method"`
	Dx     float64 `json:"dx"`
	Frames []Frame `json:"frames"`
	Error  string  `json:"error,omitempty"`
}

type BatchRequest struct {
	Items []SimulationRequest `json:"items"`
}

type BatchResponse struct {
	Results []SimulationResponse `json:"results"`
}

// 钢材物性表中的一行
type SteelPropertyRow struct {
	Temperature         float64 `json:"temperature"`
	ThermalConductivity float64 `json:"thermal_conductivity"`
	Density             float64 `json:"density"`
	SpecificHeat        float64 `json:"specific_heat"`
}

// 前后端通信消息结构
type Msg struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}
