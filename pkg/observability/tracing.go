package observability

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	awsv2 "github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
)

// InstrumentAWSClients attaches X-Ray tracing to every AWS SDK client built
// from cfg. Call before constructing service clients; only effective inside
// an environment with a running X-Ray daemon or Lambda tracing enabled.
func InstrumentAWSClients(cfg *aws.Config) {
	awsv2.AWSV2Instrumentor(&cfg.APIOptions)
}
