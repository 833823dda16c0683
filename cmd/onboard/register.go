package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"techconnect/internal/audit"
	"techconnect/internal/domain/registration"
	jwtsvc "techconnect/internal/pkg/jwt"
	"techconnect/internal/pkg/metrics"
)

var (
	manifestPath string
	dryRun       bool
)

var registerCmd = &cobra.Command{
	Use:   "register -f manifest.yaml",
	Short: "Register every account listed in a manifest",
	Long: `Runs each manifest entry through the registration wizard: role selection,
every step with its validation and the email check, then submission and the
KYC, resume and certification uploads.`,
	Args: cobra.NoArgs,
	RunE: runRegister,
}

func init() {
	registerCmd.Flags().StringVarP(&manifestPath, "file", "f", "", "manifest file (YAML)")
	registerCmd.Flags().BoolVar(&dryRun, "dry-run", false, "walk the steps without submitting")
	_ = registerCmd.MarkFlagRequired("file")
}

func runRegister(cmd *cobra.Command, _ []string) error {
	m, err := loadManifest(manifestPath)
	if err != nil {
		return err
	}
	client, log, err := newClient()
	if err != nil {
		return err
	}

	codec := registration.NewCodec(nil)
	controller := registration.NewController(client, audit.NewLogPublisher(log), nil, metrics.Nop(), log, registration.ControllerConfig{})
	service := registration.NewService(registration.NewMemoryStore(codec), controller, jwtsvc.New("onboard-cli", time.Hour), nil, metrics.Nop(), log, registration.ServiceConfig{})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()
	failed := 0
	for i, e := range m.Registrations {
		label := fmt.Sprintf("[%d] %s", i+1, e.Identity.Email)
		result, err := register(ctx, service, m, e)
		switch {
		case err != nil:
			failed++
			fmt.Fprintf(out, "%s: FAILED: %v\n", label, err)
		case result == nil:
			fmt.Fprintf(out, "%s: ok (dry run)\n", label)
		default:
			printResult(out, label, result)
		}
	}
	if err := service.Close(ctx); err != nil {
		log.Warn("close sessions", zap.Error(err))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d registrations failed", failed, len(m.Registrations))
	}
	return nil
}

func register(ctx context.Context, svc *registration.Service, m *Manifest, e Entry) (*registration.SubmitResult, error) {
	view, _, err := svc.Start(ctx, e.Role)
	if err != nil {
		return nil, err
	}
	id := view.ID

	confirm := e.Identity.Password
	if _, err := svc.UpdateIdentity(ctx, id, registration.IdentityPatch{
		Name:            &e.Identity.Name,
		Email:           &e.Identity.Email,
		Password:        &e.Identity.Password,
		ConfirmPassword: &confirm,
		Phone:           &e.Identity.Phone,
	}); err != nil {
		return nil, fmt.Errorf("identity: %w", err)
	}

	switch view.Role {
	case registration.RoleProvider:
		if e.Provider != nil {
			if _, err := svc.UpdateProvider(ctx, id, *e.Provider.patch(e.KYCDocType)); err != nil {
				return nil, fmt.Errorf("provider profile: %w", err)
			}
		}
		for _, c := range e.Certifications {
			if _, err := svc.AddCertification(ctx, id, c.certification()); err != nil {
				return nil, fmt.Errorf("certification %q: %w", c.Name, err)
			}
		}
		resume, err := m.attachment(e.Resume)
		if err != nil {
			return nil, fmt.Errorf("resume: %w", err)
		}
		if resume != nil {
			if _, err := svc.AttachResume(ctx, id, *resume); err != nil {
				return nil, fmt.Errorf("resume: %w", err)
			}
		}
	case registration.RoleCustomer:
		if e.Customer != nil {
			if _, err := svc.UpdateCustomer(ctx, id, *e.Customer.patch()); err != nil {
				return nil, fmt.Errorf("company profile: %w", err)
			}
		}
	}

	kyc, err := m.attachment(e.KYC)
	if err != nil {
		return nil, fmt.Errorf("kyc: %w", err)
	}
	if kyc != nil {
		if _, err := svc.AttachKYC(ctx, id, *kyc); err != nil {
			return nil, fmt.Errorf("kyc: %w", err)
		}
	}

	for view.CurrentStep < view.TotalSteps {
		var outcome registration.AdvanceOutcome
		view, outcome, err = svc.Advance(ctx, id)
		if err != nil {
			return nil, err
		}
		if outcome != registration.OutcomeAdvanced {
			return nil, stepError(view, outcome)
		}
	}
	if dryRun {
		return nil, nil
	}

	view, result, err := svc.Submit(ctx, id)
	if err != nil {
		if view != nil && view.Error != "" {
			return nil, fmt.Errorf("%s", view.Error)
		}
		return nil, err
	}
	return result, nil
}

func stepError(v *registration.View, outcome registration.AdvanceOutcome) error {
	msg := v.Error
	if msg == "" {
		msg = string(outcome)
	}
	if len(v.FieldErrors) == 0 {
		return fmt.Errorf("step %d: %s", v.CurrentStep, msg)
	}
	fields := make([]string, 0, len(v.FieldErrors))
	for f, e := range v.FieldErrors {
		fields = append(fields, f+": "+e)
	}
	return fmt.Errorf("step %d: %s (%s)", v.CurrentStep, msg, strings.Join(fields, "; "))
}

func printResult(w io.Writer, label string, r *registration.SubmitResult) {
	if len(r.PendingFollowUps) == 0 {
		fmt.Fprintf(w, "%s: registered as user %s\n", label, r.UserID)
		return
	}
	fmt.Fprintf(w, "%s: registered as user %s, pending: %s\n", label, r.UserID, strings.Join(r.PendingFollowUps, ", "))
}
