package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/PsichiX/Intuicio-sub002/pkg/core"
	"github.com/PsichiX/Intuicio-sub002/pkg/data"
	"github.com/PsichiX/Intuicio-sub002/pkg/script"
)

func newRunCommand() *cobra.Command {
	var scenario string
	var strict bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a built-in demo scenario against the core VM",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := buildDemoRegistry(viper.GetInt("index-capacity"))
			if err != nil {
				return err
			}
			ctx := core.NewDefaultContext()
			ctx.Strict = strict

			var sc *script.Script[constExpr]
			switch scenario {
			case "add":
				sc = demoAddScript(registry)
			case "loop-sum":
				sc = demoLoopSumScript(registry)
			default:
				return fmt.Errorf("unknown scenario %q (want add or loop-sum)", scenario)
			}

			debugger := script.NewPrintDebugger[constExpr](logger)
			vm := script.NewVmScope(sc).WithDebugger(debugger)
			if err := vm.Run(ctx, registry); err != nil {
				return fmt.Errorf("scenario %q failed: %w", scenario, err)
			}

			i32, ok := registry.FindType(core.TypeQuery{Name: strp("i32")})
			if !ok {
				return core.ErrNoSuchType
			}
			result, err := data.Pop[int32](ctx.Stack(), i32.TypeHash())
			if err != nil {
				return fmt.Errorf("reading scenario %q result: %w", scenario, err)
			}
			fmt.Printf("%s = %d\n", scenario, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&scenario, "scenario", "add", "scenario to run: add, loop-sum")
	cmd.Flags().BoolVar(&strict, "strict", false, "run the context in strict argument-checking mode")
	return cmd
}

func newTypesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the types registered by the demo registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := buildDemoRegistry(viper.GetInt("index-capacity"))
			if err != nil {
				return err
			}
			types := registry.FindTypes(core.TypeQuery{})
			for _, t := range types {
				fmt.Printf("%-10s size=%-4d align=%-2d hash=%x\n", t.Name, t.Layout.Size, t.Layout.Align, t.TypeHash())
			}
			return nil
		},
	}
}

func newFunctionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "functions",
		Short: "List the functions registered by the demo registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := buildDemoRegistry(viper.GetInt("index-capacity"))
			if err != nil {
				return err
			}
			fns := registry.FindFunctions(core.FunctionQuery{})
			for _, f := range fns {
				fmt.Printf("%s(%d in, %d out)\n", f.Signature.Name, len(f.Signature.Inputs), len(f.Signature.Outputs))
			}
			return nil
		},
	}
}
