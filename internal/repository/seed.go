package repository

import (
	"time"

	"github.com/adityamenon/formulaace/internal/model"
)

// seedChapters returns the starter catalog: one sample chapter per subject.
func seedChapters() []model.Chapter {
	return []model.Chapter{
		{
			ID:      "phys-kinematics",
			Title:   "Kinematics",
			Subject: model.SubjectPhysics,
			Concepts: []model.Concept{
				{
					ID:      "concept-1",
					Title:   "Position and Displacement",
					Content: "Position refers to the location of an object relative to a reference point. Displacement is the change in position of an object, defined as the shortest distance from the initial to the final position. It is a vector quantity, having both magnitude and direction.",
				},
				{
					ID:      "concept-2",
					Title:   "Velocity and Acceleration",
					Content: "Velocity is the rate of change of position with respect to time. It is a vector quantity. Acceleration is the rate of change of velocity with respect to time. It is also a vector quantity.",
				},
			},
			Formulas: []model.Formula{
				{
					ID:          "formula-1",
					Title:       "Displacement Formula",
					LaTeX:       `\vec{s} = \vec{r}_f - \vec{r}_i`,
					Explanation: "Displacement is the change in position of an object, calculated as the final position minus the initial position.",
					Where:       "Used in problems involving motion along a straight line or curved path.",
				},
				{
					ID:          "formula-2",
					Title:       "Velocity Formula",
					LaTeX:       `\vec{v} = \frac{d\vec{r}}{dt}`,
					Explanation: "Velocity is the rate of change of position with respect to time, equal to the derivative of position with respect to time.",
					Where:       "Used in problems involving motion with varying speeds or directions.",
				},
				{
					ID:          "formula-3",
					Title:       "Acceleration Formula",
					LaTeX:       `\vec{a} = \frac{d\vec{v}}{dt}`,
					Explanation: "Acceleration is the rate of change of velocity with respect to time, equal to the derivative of velocity with respect to time.",
					Where:       "Used in problems involving non-uniform motion or when forces are applied to objects.",
				},
				{
					ID:          "formula-4",
					Title:       "Equations of Motion (Constant Acceleration)",
					LaTeX:       `\begin{align} v &= u + at \\ s &= ut + \frac{1}{2}at^2 \\ v^2 &= u^2 + 2as \end{align}`,
					Explanation: "These equations relate displacement (s), initial velocity (u), final velocity (v), acceleration (a), and time (t) for motion with constant acceleration.",
					Where:       "Used in problems involving free fall, projectile motion, or any motion with constant acceleration.",
				},
			},
			Examples: []model.Example{
				{
					ID:       "example-1",
					Question: "A car travels with a constant speed of 20 m/s for 10 seconds. What is the displacement of the car?",
					Solution: "Using the formula s = v × t, where v is the velocity and t is the time:\ns = 20 m/s × 10 s = 200 m\nTherefore, the displacement of the car is 200 meters.",
				},
				{
					ID:            "example-2",
					Question:      "A particle moves along the x-axis such that its position is given by x = 3t² - 2t + 5, where x is in meters and t is in seconds. Find the velocity and acceleration of the particle at t = 2s.",
					Solution:      "To find the velocity, we need to differentiate the position function with respect to time:\nv = dx/dt = d(3t² - 2t + 5)/dt = 6t - 2\nAt t = 2s, v = 6(2) - 2 = 12 - 2 = 10 m/s\n\nTo find the acceleration, we differentiate the velocity function:\na = dv/dt = d(6t - 2)/dt = 6\nSo the acceleration is constant at 6 m/s².",
					IsJEEAdvanced: true,
				},
			},
			Order: 1,
		},
		{
			ID:      "chem-atomic",
			Title:   "Atomic Structure",
			Subject: model.SubjectChemistry,
			Concepts: []model.Concept{
				{
					ID:      "concept-1",
					Title:   "Atomic Models",
					Content: "Various models have been proposed to explain the structure of atoms, including the Thomson model (plum pudding model), the Rutherford model (planetary model), and the Bohr model (orbital model).",
				},
			},
			Formulas: []model.Formula{
				{
					ID:          "formula-1",
					Title:       "Energy of an Electron in nth Orbit",
					LaTeX:       `E_n = -\frac{13.6}{n^2} \, \text{eV}`,
					Explanation: "This formula gives the energy of an electron in the nth orbit of a hydrogen atom, where n is the principal quantum number.",
					Where:       "Used in problems involving atomic spectra and electron transitions.",
				},
			},
			Examples: []model.Example{
				{
					ID:       "example-1",
					Question: "Calculate the energy of an electron in the second orbit of a hydrogen atom.",
					Solution: "Using the formula E_n = -13.6/n² eV, where n is the principal quantum number:\nFor n = 2, E_2 = -13.6/2² = -13.6/4 = -3.4 eV\nTherefore, the energy of an electron in the second orbit of a hydrogen atom is -3.4 eV.",
				},
			},
			Order: 1,
		},
		{
			ID:      "math-calculus",
			Title:   "Differential Calculus",
			Subject: model.SubjectMathematics,
			Concepts: []model.Concept{
				{
					ID:      "concept-1",
					Title:   "Limits",
					Content: "A limit is the value that a function approaches as the input approaches a certain value. It is denoted as lim x→a f(x) = L, which means that as x approaches a, the function f(x) approaches the value L.",
				},
				{
					ID:      "concept-2",
					Title:   "Derivatives",
					Content: "A derivative is a measure of how a function changes as its input changes. It is the instantaneous rate of change of a function with respect to one of its variables. The derivative of a function f with respect to x is denoted as f'(x) or df/dx.",
				},
			},
			Formulas: []model.Formula{
				{
					ID:          "formula-1",
					Title:       "Definition of Derivative",
					LaTeX:       `f'(x) = \lim_{h \to 0} \frac{f(x+h) - f(x)}{h}`,
					Explanation: "This is the formal definition of a derivative, representing the instantaneous rate of change of the function f at the point x.",
					Where:       "Used to derive differentiation rules and understand the concept of derivatives.",
				},
				{
					ID:          "formula-2",
					Title:       "Power Rule",
					LaTeX:       `\frac{d}{dx}[x^n] = nx^{n-1}`,
					Explanation: "The derivative of x raised to the power n is equal to n times x raised to the power n-1.",
					Where:       "Used to differentiate polynomial functions and other functions involving powers of x.",
				},
			},
			Examples: []model.Example{
				{
					ID:       "example-1",
					Question: "Find the derivative of f(x) = 3x² - 2x + 5.",
					Solution: "Using the power rule and linearity of differentiation:\nf'(x) = d/dx(3x²) - d/dx(2x) + d/dx(5)\nf'(x) = 3 · 2x¹ - 2 · 1 + 0\nf'(x) = 6x - 2\nTherefore, the derivative of f(x) = 3x² - 2x + 5 is f'(x) = 6x - 2.",
				},
			},
			Order: 1,
		},
	}
}

// seedThreads returns the sample conversation shown on first use: a worked
// kinematics exchange so the chat view is never empty.
func seedThreads(now time.Time) []model.ChatThread {
	created := now.Add(-time.Hour).UnixMilli()
	updated := now.Add(-59 * time.Minute).UnixMilli()
	return []model.ChatThread{
		{
			ID:    "thread-1",
			Title: "Help with Kinematics Problem",
			Messages: []model.ChatMessage{
				{
					ID:        "msg-1",
					Content:   "I'm having trouble understanding how to solve this problem: A car accelerates uniformly from rest to 20 m/s in 10 seconds. How far does it travel?",
					IsUser:    true,
					Timestamp: created,
				},
				{
					ID:        "msg-2",
					Content:   "Let me help you solve this problem step by step.\n\nWe know:\n- Initial velocity u = 0 m/s (the car starts from rest)\n- Final velocity v = 20 m/s\n- Time taken t = 10 s\n\nWe need to find the distance traveled.\n\nWe can use the equation of motion: $s = ut + \\frac{1}{2}at^2$\n\nFirst, let's find the acceleration:\nUsing $v = u + at$, we get:\n$20 = 0 + a \\times 10$\n$a = 2$ m/s²\n\nNow we can use this acceleration in our distance equation:\n$s = 0 \\times 10 + \\frac{1}{2} \\times 2 \\times 10^2$\n$s = 0 + \\frac{1}{2} \\times 2 \\times 100$\n$s = 100$ meters\n\nTherefore, the car travels 100 meters in 10 seconds.",
					IsUser:    false,
					Timestamp: updated,
				},
			},
			CreatedAt: created,
			UpdatedAt: updated,
		},
	}
}

// seedTodos returns two sample tasks dated "today".
func seedTodos(now time.Time) []model.TodoTask {
	today := now.Format("2006-01-02")
	return []model.TodoTask{
		{ID: "todo-1", Text: "Review Physics Kinematics chapter", Completed: false, Date: today},
		{ID: "todo-2", Text: "Solve 10 JEE problems on Calculus", Completed: true, Date: today},
	}
}
