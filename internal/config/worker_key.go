package config

type WorkerKeyStruct struct {
	ResultsRefreshQueue string
}

var WorkerKey = &WorkerKeyStruct{
	ResultsRefreshQueue: "gd_results_refresh_queue",
}
