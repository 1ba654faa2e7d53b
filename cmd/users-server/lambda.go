package main

import (
	"net/http"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var lambdaCmd = &cobra.Command{
	Use:   "lambda",
	Short: "Run as an AWS Lambda function behind API Gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		as, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer as.Close()

		version := as.Config.Common.Lambda.PayloadVersion
		as.Logger.Info("Starting lambda handler", zap.Int("payload_version", version))

		// lambda.Start does not return
		lambda.Start(lambdaHandler(as.Router(), version))
		return nil
	},
}

// lambdaHandler adapts an http.Handler to the API Gateway payload format
func lambdaHandler(h http.Handler, payloadVersion int) interface{} {
	if payloadVersion == 1 {
		return httpadapter.New(h).ProxyWithContext
	}
	return httpadapter.NewV2(h).ProxyWithContext
}

func init() {
	rootCmd.AddCommand(lambdaCmd)
}
